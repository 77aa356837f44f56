package database

import (
	"fmt"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models. Unique
// indexes on email and phone come from the model tags.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
