package session

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Ключи клиентского хранилища. Единственный долговечный артефакт
// аутентификации - KeyToken; остальные ключи служебные.
const (
	KeyToken         = "token"
	KeyFlash         = "flash"
	KeyReturnTo      = "return_to"
	KeyRegisterEmail = "register_email"
	KeyRegisterName  = "register_name"
	KeyOAuthState    = "oauth_state"
	KeyAppliedJobs   = "applied_jobs"
	KeyCreatedAlerts = "created_alerts"
)

// userScopedKeys очищаются при logout вместе с токеном
var userScopedKeys = []string{KeyAppliedJobs, KeyCreatedAlerts}

// ClientStorage - key/value хранилище одного браузера (аналог localStorage)
type ClientStorage interface {
	Get(key string) string
	Set(key, value string) error
	Remove(key string) error
}

// Backend открывает хранилище клиента для текущего запроса
type Backend interface {
	Open(c *gin.Context) (ClientStorage, error)
}

// MemoryStorage - хранилище в памяти одного клиента (тесты, CLI)
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
