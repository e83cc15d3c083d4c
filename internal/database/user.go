package database

import (
	"time"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm/clause"
)

// TouchUser создаёт пользователя или обновляет имя и last_seen
func (d *Database) TouchUser(id, username string) error {
	now := time.Now()
	user := models.User{ID: id, Username: username, LastSeenAt: now, CreatedAt: now}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "last_seen_at"}),
	}).Create(&user).Error
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateLastSeen(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}
