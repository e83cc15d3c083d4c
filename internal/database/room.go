package database

import (
	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm/clause"
)

// SaveRoom сохраняет комнату; имя уникально, повторная запись ничего не меняет
func (d *Database) SaveRoom(room *models.Room) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(room).Error
}

func (d *Database) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := d.db.Order("created_at ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}
