package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/validation"
	"gorm.io/gorm"
)

// SubmitContact stores a contact inquiry. Retries are not deduplicated.
func SubmitContact(ctx context.Context, db *gorm.DB, form validation.ContactForm) (*models.ContactSubmission, error) {
	if errs := validation.ValidateContact(form); errs != nil {
		metrics.ValidationFailures.WithLabelValues("contact").Inc()
		return nil, &ValidationError{Fields: errs}
	}
	form = form.Normalize()

	sub := models.ContactSubmission{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntityContact, sub.ID.String(), models.OpUpsert, sub)
	})
	if err != nil {
		return nil, fmt.Errorf("store contact submission: %w", err)
	}

	metrics.Submissions.WithLabelValues("contact").Inc()
	log.Printf("📨 contact submission %s from %s", sub.ID, sub.Email)
	return &sub, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListContacts returns submissions newest first. A non-empty query keeps rows
// whose name, email or subject contains it, ignoring case.
func ListContacts(ctx context.Context, db *gorm.DB, query string) ([]models.ContactSubmission, error) {
	q := db.WithContext(ctx).Order("created_at desc")
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(subject) LIKE ? ESCAPE '\'`, like, like, like)
	}
	var out []models.ContactSubmission
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ContactsByID loads submissions in the order of ids, skipping missing ones.
func ContactsByID(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]models.ContactSubmission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ContactSubmission
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.ContactSubmission, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.ContactSubmission, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteContact removes a submission permanently once the moderator confirmed.
func DeleteContact(ctx context.Context, db *gorm.DB, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ContactSubmission{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return AddOutboxEvent(tx, models.EntityContact, id.String(), models.OpDelete, nil)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete contact submission: %w", err)
	}
	metrics.ModerationActions.WithLabelValues(models.EntityContact, models.OpDelete).Inc()
	log.Printf("🗑️ contact submission %s deleted", id)
	return nil
}
