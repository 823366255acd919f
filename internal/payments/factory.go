package payments

import (
	"fmt"

	"github.com/sirdesai22/event-site/internal/config"
	"github.com/sirdesai22/event-site/internal/payments/hosted"
)

func NewProvider(cfg config.Config) (PaymentProvider, error) {
	switch cfg.PaymentProvider {
	case "hosted":
		return hosted.New(cfg.PaymentWebhookSecret), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.PaymentProvider)
	}
}
