package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const cookiePrefix = "jp_"

// CookieOptions - атрибуты cookie
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// CookieBackend хранит каждый ключ в отдельной HttpOnly cookie
type CookieBackend struct {
	opts CookieOptions
}

func NewCookieBackend(opts CookieOptions) *CookieBackend {
	if opts.MaxAge <= 0 {
		opts.MaxAge = 30 * 24 * time.Hour
	}
	return &CookieBackend{opts: opts}
}

func (b *CookieBackend) Open(c *gin.Context) (ClientStorage, error) {
	return &cookieStorage{c: c, opts: b.opts, pending: make(map[string]*string)}, nil
}

type cookieStorage struct {
	c    *gin.Context
	opts CookieOptions
	// записанные в этом запросе значения (Set-Cookie ещё не вернулся от браузера)
	pending map[string]*string
}

func (s *cookieStorage) Get(key string) string {
	if v, ok := s.pending[key]; ok {
		if v == nil {
			return ""
		}
		return *v
	}
	v, err := s.c.Cookie(cookiePrefix + key)
	if err != nil {
		return ""
	}
	return v
}

func (s *cookieStorage) Set(key, value string) error {
	s.pending[key] = &value
	s.write(key, value, int(s.opts.MaxAge.Seconds()))
	return nil
}

func (s *cookieStorage) Remove(key string) error {
	s.pending[key] = nil
	s.write(key, "", -1)
	return nil
}

func (s *cookieStorage) write(key, value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(cookiePrefix+key, value, maxAge, "/", "", s.opts.Secure, true)
}
