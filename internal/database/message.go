package database

import (
	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveMessage(message *models.Message) error {
	return d.db.Create(message).Error
}

// UpdateMessage переписывает изменяемые поля: правку и удаление
func (d *Database) UpdateMessage(message *models.Message) error {
	return d.db.Model(&models.Message{ID: message.ID}).
		Select("content", "file_ref", "mime", "deleted", "edited_at").
		Updates(message).Error
}

func (d *Database) SaveReaction(reaction *models.Reaction) error {
	return d.db.Create(reaction).Error
}

// GetRoomMessages возвращает журнал комнаты по возрастанию seq
func (d *Database) GetRoomMessages(roomName string) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.
		Where("room_name = ?", roomName).
		Order("seq ASC").
		Preload("Reactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
