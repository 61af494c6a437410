package session

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Manager создаёт Store для каждого запроса поверх выбранного Backend.
// Кэш и singleflight общие для всех запросов процесса.
type Manager struct {
	backend Backend
	res     *resolver
}

func NewManager(backend Backend, api AuthAPI, cache *UserCache) *Manager {
	return &Manager{
		backend: backend,
		res:     &resolver{api: api, cache: cache},
	}
}

// Load открывает хранилище клиента и восстанавливает сессию по сохранённому токену
func (m *Manager) Load(c *gin.Context) (*Store, error) {
	storage, err := m.backend.Open(c)
	if err != nil {
		return nil, err
	}
	return newStore(c.Request.Context(), m.res, storage), nil
}

// LoadStorage - для тестов и фоновых задач без HTTP-запроса
func (m *Manager) LoadStorage(ctx context.Context, storage ClientStorage) *Store {
	return newStore(ctx, m.res, storage)
}

// Cache - общий кэш пользователей
func (m *Manager) Cache() *UserCache {
	return m.res.cache
}
