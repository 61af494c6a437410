package models

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// backendID - бэкенд отдаёт идентификатор то как "_id", то как "id".
// Приводим к одному полю ID на границе декодирования.
type backendID struct {
	OID string `json:"_id"`
}

func pickID(oid, id string) string {
	if oid != "" {
		return oid
	}
	return id
}
