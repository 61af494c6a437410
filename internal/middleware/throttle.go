package middleware

import (
	"sync"
	"time"

	"jobportal_web/internal/logger"
	"jobportal_web/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LoginThrottle ограничивает попытки входа/регистрации с одного IP
type LoginThrottle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLoginThrottle(perMinute int) *LoginThrottle {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginThrottle{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		visitors: make(map[string]*visitor),
	}
}

func (t *LoginThrottle) limiterFor(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup забывает IP, не появлявшиеся дольше idle
func (t *LoginThrottle) Cleanup(idle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for ip, v := range t.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(t.visitors, ip)
			n++
		}
	}
	return n
}

func (t *LoginThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.limiterFor(c.ClientIP()).Allow() {
			logger.CtxWarn(c.Request.Context(), "Login attempts throttled", "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.ErrTooManyAttempts)
			return
		}
		c.Next()
	}
}
