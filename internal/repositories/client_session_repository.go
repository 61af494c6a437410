package repositories

import (
	"errors"
	"time"

	"jobportal_web/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrClientSessionNotFound - записи с таким sid нет
	ErrClientSessionNotFound = errors.New("client session not found")
)

// ClientSessionRepository - серверное хранилище браузерных клиентов (session.store = db)
type ClientSessionRepository interface {
	// FindByID находит запись по sid
	FindByID(db *gorm.DB, id string) (*models.ClientSession, error)

	// Save создаёт или полностью перезаписывает запись
	Save(db *gorm.DB, sess *models.ClientSession) error

	// Delete удаляет запись
	Delete(db *gorm.DB, id string) error

	// DeleteStale удаляет записи, не использовавшиеся с момента before
	DeleteStale(db *gorm.DB, before time.Time) (int64, error)
}

type clientSessionRepository struct{}

func NewClientSessionRepository() ClientSessionRepository {
	return &clientSessionRepository{}
}

func (r *clientSessionRepository) FindByID(db *gorm.DB, id string) (*models.ClientSession, error) {
	var sess models.ClientSession
	if err := db.Where("id = ?", id).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (r *clientSessionRepository) Save(db *gorm.DB, sess *models.ClientSession) error {
	sess.LastSeenAt = time.Now()
	return db.Save(sess).Error
}

func (r *clientSessionRepository) Delete(db *gorm.DB, id string) error {
	return db.Where("id = ?", id).Delete(&models.ClientSession{}).Error
}

func (r *clientSessionRepository) DeleteStale(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("last_seen_at < ?", before).Delete(&models.ClientSession{})
	return result.RowsAffected, result.Error
}
