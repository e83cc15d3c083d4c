package models

import (
	"time"
)

type Room struct {
	Name        string `gorm:"primaryKey"`
	Description string
	Category    string `gorm:"not null;default:'Other'"`
	CreatedBy   string `gorm:"not null"`
	IsPrivate   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time

	// Связи
	Messages []Message `gorm:"foreignKey:RoomName;references:Name"`
}
