package models

import (
	"time"
)

// User - пользователь, хоть раз подключавшийся к чату. Учётные данные
// выдаёт внешний сервис, здесь только id из токена и имя.
type User struct {
	ID         string `gorm:"primaryKey"`
	Username   string `gorm:"index;not null"`
	LastSeenAt time.Time
	CreatedAt  time.Time
}
