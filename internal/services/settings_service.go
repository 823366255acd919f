package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetRegisterLink overwrites the singleton link behind every "Register Now"
// button. Last write wins.
func SetRegisterLink(ctx context.Context, db *gorm.DB, link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return invalid("registerLink", validation.Required, "Registration link is required")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("registerLink", validation.InvalidFormat, "Registration link must be an absolute http(s) URL")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := models.Setting{Key: models.SettingRegisterLink, Value: link}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&s).Error
		if err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntitySetting, models.SettingRegisterLink, models.OpUpsert, s)
	})
	if err != nil {
		return fmt.Errorf("save register link: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(models.EntitySetting, models.OpUpsert).Inc()
	log.Printf("🔗 register link updated")
	return nil
}

// RegisterLink returns the current link, or "" when none was ever set.
func RegisterLink(ctx context.Context, db *gorm.DB) (string, error) {
	var s models.Setting
	err := db.WithContext(ctx).Where(&models.Setting{Key: models.SettingRegisterLink}).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load register link: %w", err)
	}
	return s.Value, nil
}
