package database

import (
	"gorm.io/gorm"

	"Remindly/internal/model"
)

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}

	return db.AutoMigrate(
		&model.Reminder{},
		&model.Routine{},
		&model.QueueEntry{},
		&model.PushSubscription{},
		&model.Contact{},
	)
}
