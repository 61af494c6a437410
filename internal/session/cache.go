package session

import (
	"sync"
	"time"

	"jobportal_web/internal/models"
)

// UserCache - короткоживущий кэш token -> user, общий для всех запросов.
// Без него каждая страница делала бы GET /users/profile.
type UserCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	user    *models.User
	expires time.Time
}

func NewUserCache(ttl time.Duration) *UserCache {
	return &UserCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get возвращает копию пользователя, если запись не истекла
func (c *UserCache) Get(token string) (*models.User, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[token]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, token)
		return nil, false
	}
	return e.user.Clone(), true
}

func (c *UserCache) Set(token string, user *models.User) {
	if c == nil || c.ttl <= 0 || token == "" || user == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = cacheEntry{user: user.Clone(), expires: c.now().Add(c.ttl)}
}

func (c *UserCache) Delete(token string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}

// Purge удаляет истекшие записи
func (c *UserCache) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for token, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, token)
			n++
		}
	}
	return n
}

func (c *UserCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
