package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClientSession - серверное хранилище браузерного клиента (session.store = db).
// Ключ записи - непрозрачный sid из cookie.
type ClientSession struct {
	BaseModel
	Values     datatypes.JSONMap `gorm:"type:json"`
	LastSeenAt time.Time         `gorm:"index"`
}

func (ClientSession) TableName() string {
	return "client_sessions"
}
