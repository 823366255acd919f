package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/payments"
	"github.com/sirdesai22/event-site/internal/validation"
	"gorm.io/gorm"
)

// SubmitRegistration stores a registration attempt and returns the external
// page where the registrant pays. The registration stays unconfirmed until the
// payment provider reports back.
func SubmitRegistration(ctx context.Context, db *gorm.DB, pay payments.PaymentProvider, form validation.RegistrationForm) (*models.Registration, string, error) {
	if errs := validation.ValidateRegistration(form); errs != nil {
		metrics.ValidationFailures.WithLabelValues("registration").Inc()
		return nil, "", &ValidationError{Fields: errs}
	}
	form = form.Normalize()

	link, err := RegisterLink(ctx, db)
	if err != nil {
		return nil, "", err
	}
	if link == "" {
		return nil, "", ErrRegistrationClosed
	}

	reg := models.Registration{
		ID:                  uuid.New(),
		Name:                form.Name,
		Email:               form.Email,
		CompanyName:         form.CompanyName,
		MobileCountryCode:   form.MobileCountryCode,
		MobileNumber:        form.MobileNumber,
		WhatsappCountryCode: form.WhatsappCountryCode,
		WhatsappNumber:      form.WhatsappNumber,
		State:               form.State,
		Place:               form.Place,
		LunchPreference:     form.LunchPreference,
		PaymentStatus:       models.PaymentUnconfirmed,
	}
	if form.State == validation.OtherState {
		reg.OtherState = form.OtherState
	}

	checkout, err := pay.CheckoutURL(ctx, link, reg)
	if err != nil {
		return nil, "", fmt.Errorf("%s checkout url: %w", pay.Name(), err)
	}
	reg.PaymentLink = checkout

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, models.EntityRegistration, reg.ID.String(), models.OpUpsert, reg)
	})
	if err != nil {
		return nil, "", fmt.Errorf("store registration: %w", err)
	}

	metrics.Submissions.WithLabelValues("registration").Inc()
	log.Printf("📝 registration %s initiated for %s", reg.ID, reg.Email)
	return &reg, checkout, nil
}

// ConfirmPayment applies a verified payment callback. paid and cancelled are
// final: a later callback for a settled registration is ignored and the stored
// record is returned unchanged.
func ConfirmPayment(ctx context.Context, db *gorm.DB, registrationID uuid.UUID, status string) (*models.Registration, error) {
	switch status {
	case models.PaymentPaid, models.PaymentCancelled:
	default:
		return nil, fmt.Errorf("unknown payment status %q", status)
	}

	var reg models.Registration
	settled := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, "id = ?", registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reg.PaymentStatus != models.PaymentUnconfirmed {
			settled = true
			return nil
		}
		now := time.Now()
		if err := tx.Model(&reg).Updates(map[string]any{"payment_status": status, "payment_updated_at": &now}).Error; err != nil {
			return err
		}
		reg.PaymentStatus = status
		reg.PaymentUpdatedAt = &now
		return AddOutboxEvent(tx, models.EntityRegistration, reg.ID.String(), models.OpUpsert, reg)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	if settled {
		log.Printf("💳 registration %s already %s, ignoring %s callback", reg.ID, reg.PaymentStatus, status)
		return &reg, nil
	}
	log.Printf("💳 registration %s payment %s", reg.ID, status)
	return &reg, nil
}

func ListRegistrations(ctx context.Context, db *gorm.DB) ([]models.Registration, error) {
	var out []models.Registration
	if err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var registrationCSVHeader = []string{
	"id", "created_at", "name", "email", "company", "mobile", "whatsapp",
	"state", "place", "lunch", "payment_status",
}

// WriteRegistrationsCSV exports registrations for the event team.
func WriteRegistrationsCSV(w io.Writer, regs []models.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registrationCSVHeader); err != nil {
		return err
	}
	for _, r := range regs {
		state := r.State
		if state == validation.OtherState && r.OtherState != "" {
			state = r.OtherState
		}
		row := []string{
			r.ID.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Name,
			r.Email,
			r.CompanyName,
			r.MobileCountryCode + " " + r.MobileNumber,
			r.WhatsappCountryCode + " " + r.WhatsappNumber,
			state,
			r.Place,
			r.LunchPreference,
			r.PaymentStatus,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
