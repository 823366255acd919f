package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/validation"
	"gorm.io/gorm"
)

const (
	minScrollSeconds     = 20.0
	scrollSecondsPerRune = 0.2
)

type AnnouncementUpdate struct {
	Text    string `json:"text"`
	Link    string `json:"link"`
	Enabled bool   `json:"enabled"`
}

// Banner is what the public site renders in the scrolling bar.
type Banner struct {
	Items           []models.Announcement `json:"items"`
	DurationSeconds float64               `json:"durationSeconds"`
}

func AddAnnouncement(ctx context.Context, db *gorm.DB, text, link string) (*models.Announcement, error) {
	text, link = strings.TrimSpace(text), strings.TrimSpace(link)
	if text == "" {
		return nil, invalid("text", validation.Required, "Announcement text is required")
	}
	a := models.Announcement{Text: text, Link: link, Enabled: true}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntityAnnouncement, a.ID.String(), models.OpUpsert, a)
	})
	if err != nil {
		return nil, fmt.Errorf("add announcement: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(models.EntityAnnouncement, "ADD").Inc()
	log.Printf("📣 announcement %s added", a.ID)
	return &a, nil
}

// UpdateAnnouncement replaces every mutable field. Concurrent edits race and
// the last write wins.
func UpdateAnnouncement(ctx context.Context, db *gorm.DB, id uuid.UUID, upd AnnouncementUpdate) (*models.Announcement, error) {
	upd.Text, upd.Link = strings.TrimSpace(upd.Text), strings.TrimSpace(upd.Link)
	if upd.Text == "" {
		return nil, invalid("text", validation.Required, "Announcement text is required")
	}
	return updateAnnouncement(ctx, db, id, map[string]any{
		"text":    upd.Text,
		"link":    upd.Link,
		"enabled": upd.Enabled,
	})
}

func ToggleEnabled(ctx context.Context, db *gorm.DB, id uuid.UUID, enabled bool) (*models.Announcement, error) {
	return updateAnnouncement(ctx, db, id, map[string]any{"enabled": enabled})
}

func updateAnnouncement(ctx context.Context, db *gorm.DB, id uuid.UUID, fields map[string]any) (*models.Announcement, error) {
	var a models.Announcement
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&a).Updates(fields).Error; err != nil {
			return err
		}
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntityAnnouncement, a.ID.String(), models.OpUpsert, a)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(models.EntityAnnouncement, models.OpUpsert).Inc()
	return &a, nil
}

func DeleteAnnouncement(ctx context.Context, db *gorm.DB, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Announcement{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return AddOutboxEvent(tx, models.EntityAnnouncement, id.String(), models.OpDelete, nil)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(models.EntityAnnouncement, models.OpDelete).Inc()
	log.Printf("🗑️ announcement %s deleted", id)
	return nil
}

// ListAnnouncements returns every announcement in store order (oldest first).
func ListAnnouncements(ctx context.Context, db *gorm.DB) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ConsoleAnnouncements is the store order reversed, most recent first.
func ConsoleAnnouncements(all []models.Announcement) []models.Announcement {
	out := make([]models.Announcement, len(all))
	for i, a := range all {
		out[len(all)-1-i] = a
	}
	return out
}

// VisibleAnnouncements keeps enabled items, preserving store order.
func VisibleAnnouncements(all []models.Announcement) []models.Announcement {
	out := make([]models.Announcement, 0, len(all))
	for _, a := range all {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

// ScrollDuration is the banner's seconds per pass: 0.2s per character of
// visible text, never below 20s.
func ScrollDuration(visible []models.Announcement) float64 {
	total := 0
	for _, a := range visible {
		total += utf8.RuneCountInString(a.Text)
	}
	return math.Max(minScrollSeconds, float64(total)*scrollSecondsPerRune)
}

func BuildBanner(all []models.Announcement) Banner {
	visible := VisibleAnnouncements(all)
	return Banner{Items: visible, DurationSeconds: ScrollDuration(visible)}
}

func PublicBanner(ctx context.Context, db *gorm.DB) (Banner, error) {
	all, err := ListAnnouncements(ctx, db)
	if err != nil {
		return Banner{}, err
	}
	return BuildBanner(all), nil
}
