package hosted

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirdesai22/event-site/internal/models"
)

// Hosted provider:
// - CheckoutURL: the hosted payment page link with ref=<registration id>
// - Webhook: JSON body signed with X-Signature (hex HMAC SHA-256 of the body)

type Provider struct {
	secret string
}

func New(secret string) *Provider {
	return &Provider{secret: secret}
}

func (p *Provider) Name() string { return "hosted" }

func (p *Provider) CheckoutURL(ctx context.Context, registerLink string, reg models.Registration) (string, error) {
	registerLink = strings.TrimSpace(registerLink)
	if registerLink == "" {
		return "", errors.New("empty register link")
	}
	u, err := url.Parse(registerLink)
	if err != nil {
		return "", fmt.Errorf("parse register link: %w", err)
	}
	q := u.Query()
	q.Set("ref", reg.ID.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type webhookPayload struct {
	RegistrationID string `json:"registrationId"`
	Status         string `json:"status"` // paid/cancelled
}

func (p *Provider) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
	if p.secret == "" {
		return "", "", errors.New("webhook secret is not configured")
	}
	sig := headers["x-signature"]
	if sig == "" || !hmac.Equal([]byte(sig), []byte(Sign(p.secret, body))) {
		return "", "", fmt.Errorf("invalid signature")
	}

	var pl webhookPayload
	if err := json.Unmarshal(body, &pl); err != nil {
		return "", "", err
	}
	if pl.RegistrationID == "" {
		return "", "", fmt.Errorf("registrationId required")
	}

	status := strings.TrimSpace(pl.Status)
	switch status {
	case "":
		status = models.PaymentPaid
	case models.PaymentPaid, models.PaymentCancelled:
	default:
		return "", "", fmt.Errorf("unknown payment status %q", status)
	}
	return pl.RegistrationID, status, nil
}

func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
