package payments

import (
	"context"

	"github.com/sirdesai22/event-site/internal/models"
)

type PaymentProvider interface {
	Name() string

	// CheckoutURL returns the page where the registrant pays, built from the
	// moderator-managed register link.
	CheckoutURL(ctx context.Context, registerLink string, reg models.Registration) (string, error)

	// HandleWebhook validates a provider callback and returns the
	// registration it refers to and its new status (paid/cancelled).
	HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (registrationID string, status string, err error)
}
