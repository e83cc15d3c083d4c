package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomName   string    `gorm:"not null;uniqueIndex:idx_room_seq"`
	Seq        uint64    `gorm:"not null;uniqueIndex:idx_room_seq"`
	AuthorID   string    `gorm:"not null"`
	AuthorName string    `gorm:"not null"`
	Type       string    `gorm:"default:'text'"`
	Content    string
	FileRef    string
	Mime       string
	Deleted    bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	EditedAt   *time.Time

	// Связи
	Reactions []Reaction `gorm:"foreignKey:MessageID"`
}

// Reaction добавляется только дописыванием, повторы одного эмодзи допустимы
type Reaction struct {
	ID        uint      `gorm:"primaryKey"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index"`
	Emoji     string    `gorm:"not null"`
	UserID    string    `gorm:"not null"`
	Username  string    `gorm:"not null"`
	CreatedAt time.Time
}
