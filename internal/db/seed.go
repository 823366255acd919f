package db

import (
	"context"
	"log"

	"github.com/sirdesai22/event-site/internal/config"
	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/services"
	"gorm.io/gorm"
)

// Seed creates the bootstrap admin and the initial register link when they are
// configured and missing. Existing data is never overwritten.
func Seed(ctx context.Context, db *gorm.DB, idp *identity.Provider, cfg config.Config) error {
	if cfg.AdminEmail != "" {
		created, err := services.BootstrapAdmin(ctx, db, idp, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Printf("🌱 bootstrap admin %s created", cfg.AdminEmail)
		} else {
			log.Println("🌱 Accounts already exist, skipping admin seed.")
		}
	}

	if cfg.DefaultRegisterLink != "" {
		link, err := services.RegisterLink(ctx, db)
		if err != nil {
			return err
		}
		if link == "" {
			if err := services.SetRegisterLink(ctx, db, cfg.DefaultRegisterLink); err != nil {
				return err
			}
			log.Println("🌱 default register link stored")
		}
	}
	return nil
}
