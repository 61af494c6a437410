package workers

import (
	"context"
	"time"

	"jobportal_web/internal/logger"
)

// SessionSweeper - серверное хранилище клиентов (sid-backend)
type SessionSweeper interface {
	Sweep(ctx context.Context, before time.Time) (int64, error)
}

// UploadSweeper - файлы форм профиля, так и не сохранённых
type UploadSweeper interface {
	Sweep(ctx context.Context, before time.Time) (int, error)
}

type cachePurger interface {
	Purge() int
}

type throttleCleaner interface {
	Cleanup(idle time.Duration) int
}

// SessionWorker чистит то, что копится между запросами: записи клиентов,
// давно не заходивших на сайт, протухший кэш пользователей, счётчики
// попыток входа и загруженные файлы брошенных форм
type SessionWorker struct {
	sweeper  SessionSweeper // nil для cookie-хранилища
	cache    cachePurger
	throttle throttleCleaner
	interval time.Duration
	maxAge   time.Duration

	uploads   UploadSweeper
	uploadTTL time.Duration
}

func NewSessionWorker(sweeper SessionSweeper, cache cachePurger, throttle throttleCleaner, interval, maxAge time.Duration) *SessionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionWorker{
		sweeper:  sweeper,
		cache:    cache,
		throttle: throttle,
		interval: interval,
		maxAge:   maxAge,
	}
}

// WithStagedUploads добавляет удаление файлов старше ttl
func (w *SessionWorker) WithStagedUploads(uploads UploadSweeper, ttl time.Duration) *SessionWorker {
	w.uploads = uploads
	w.uploadTTL = ttl
	return w
}

// Start запускает фоновую очистку; останавливается вместе с ctx
func (w *SessionWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *SessionWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход очистки
func (w *SessionWorker) RunOnce(ctx context.Context) {
	if w.sweeper != nil && w.maxAge > 0 {
		n, err := w.sweeper.Sweep(ctx, time.Now().Add(-w.maxAge))
		logger.WorkerLog("session", "sweep_client_sessions", err)
		if err == nil && n > 0 {
			logger.Info("Removed stale client sessions", "count", n)
		}
	}
	if w.uploads != nil && w.uploadTTL > 0 {
		n, err := w.uploads.Sweep(ctx, time.Now().Add(-w.uploadTTL))
		logger.WorkerLog("session", "sweep_staged_uploads", err)
		if n > 0 {
			logger.Info("Removed abandoned staged uploads", "count", n)
		}
	}
	if w.cache != nil {
		if n := w.cache.Purge(); n > 0 {
			logger.Debug("Purged expired user cache entries", "count", n)
		}
	}
	if w.throttle != nil {
		if n := w.throttle.Cleanup(w.interval); n > 0 {
			logger.Debug("Forgot idle login throttle entries", "count", n)
		}
	}
}
