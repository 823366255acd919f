package db

import (
	"fmt"
	"log"

	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.ContactSubmission{},
		&models.Registration{},
		&models.Announcement{},
		&models.Setting{},
		&models.Account{},
		&identity.Credential{},
		&models.Outbox{},
		&models.DLQ{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Println("✅ database migrated successfully")
	return nil
}
