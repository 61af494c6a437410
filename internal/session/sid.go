package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobportal_web/internal/models"
	"jobportal_web/internal/repositories"
	"jobportal_web/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sidCookie = cookiePrefix + "sid"

// records - хранилище значений клиентов по sid
type records interface {
	load(c *gin.Context, sid string) (map[string]string, error)
	save(c *gin.Context, sid string, values map[string]string) error
	sweep(ctx context.Context, before time.Time) (int64, error)
}

// SIDBackend - в браузере только непрозрачный sid, значения на сервере
type SIDBackend struct {
	recs records
	opts CookieOptions
}

// NewDBBackend - значения в таблице client_sessions (postgres / mysql через gorm)
func NewDBBackend(db *gorm.DB, repo repositories.ClientSessionRepository, opts CookieOptions) *SIDBackend {
	return &SIDBackend{recs: &dbRecords{db: db, repo: repo}, opts: normalizeOpts(opts)}
}

// NewMemoryBackend - значения в памяти процесса
func NewMemoryBackend(opts CookieOptions) *SIDBackend {
	return &SIDBackend{recs: &memoryRecords{m: make(map[string]memoryRecord)}, opts: normalizeOpts(opts)}
}

func normalizeOpts(opts CookieOptions) CookieOptions {
	if opts.MaxAge <= 0 {
		opts.MaxAge = 30 * 24 * time.Hour
	}
	return opts
}

func (b *SIDBackend) Open(c *gin.Context) (ClientStorage, error) {
	sid, err := c.Cookie(sidCookie)
	if err != nil || uuid.Validate(sid) != nil {
		sid = uuid.NewString()
		c.SetCookie(sidCookie, sid, int(b.opts.MaxAge.Seconds()), "/", "", b.opts.Secure, true)
	}

	values, err := b.recs.load(c, sid)
	if err != nil {
		return nil, fmt.Errorf("load client session: %w", err)
	}
	return &sidStorage{c: c, sid: sid, recs: b.recs, values: values}, nil
}

// Sweep удаляет клиентов, не заходивших с момента before
func (b *SIDBackend) Sweep(ctx context.Context, before time.Time) (int64, error) {
	return b.recs.sweep(ctx, before)
}

// sidStorage пишет сквозь: каждое изменение сразу сохраняется
type sidStorage struct {
	c      *gin.Context
	sid    string
	recs   records
	mu     sync.Mutex
	values map[string]string
}

func (s *sidStorage) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *sidStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.recs.save(s.c, s.sid, s.values)
}

func (s *sidStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.recs.save(s.c, s.sid, s.values)
}

// ============================================================================
// gorm
// ============================================================================

type dbRecords struct {
	db   *gorm.DB
	repo repositories.ClientSessionRepository
}

// conn - транзакция из контекста запроса (DBMiddleware) или общий пул
func (r *dbRecords) conn(c *gin.Context) *gorm.DB {
	if c != nil {
		if v, ok := c.Get(string(contextkeys.DBContextKey)); ok {
			if db, ok := v.(*gorm.DB); ok && db != nil {
				return db.WithContext(c.Request.Context())
			}
		}
		return r.db.WithContext(c.Request.Context())
	}
	return r.db
}

func (r *dbRecords) load(c *gin.Context, sid string) (map[string]string, error) {
	values := make(map[string]string)
	sess, err := r.repo.FindByID(r.conn(c), sid)
	if errors.Is(err, repositories.ErrClientSessionNotFound) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	for k, v := range sess.Values {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	// продлеваем жизнь записи не чаще раза в час
	if time.Since(sess.LastSeenAt) > time.Hour {
		if err := r.repo.Save(r.conn(c), sess); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (r *dbRecords) save(c *gin.Context, sid string, values map[string]string) error {
	m := make(datatypes.JSONMap, len(values))
	for k, v := range values {
		m[k] = v
	}
	sess := &models.ClientSession{
		BaseModel: models.BaseModel{ID: sid},
		Values:    m,
	}
	return r.repo.Save(r.conn(c), sess)
}

func (r *dbRecords) sweep(ctx context.Context, before time.Time) (int64, error) {
	return r.repo.DeleteStale(r.db.WithContext(ctx), before)
}

// ============================================================================
// память
// ============================================================================

type memoryRecord struct {
	values   map[string]string
	lastSeen time.Time
}

type memoryRecords struct {
	mu sync.Mutex
	m  map[string]memoryRecord
}

func (r *memoryRecords) load(_ *gin.Context, sid string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string)
	rec, ok := r.m[sid]
	if !ok {
		return out, nil
	}
	for k, v := range rec.values {
		out[k] = v
	}
	rec.lastSeen = time.Now()
	r.m[sid] = rec
	return out, nil
}

func (r *memoryRecords) save(_ *gin.Context, sid string, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	r.m[sid] = memoryRecord{values: cp, lastSeen: time.Now()}
	return nil
}

func (r *memoryRecords) sweep(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for sid, rec := range r.m {
		if rec.lastSeen.Before(before) {
			delete(r.m, sid)
			n++
		}
	}
	return n, nil
}
