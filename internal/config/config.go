package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	PostgresDSN string
	ElasticURL  string

	HTTPAddr       string
	AllowedOrigins []string

	PaymentProvider      string
	PaymentWebhookSecret string
	DefaultRegisterLink  string

	// bootstrap admin, seeded only when no accounts exist
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func FromEnv() (Config, error) {
	var c Config
	c.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	c.ElasticURL = strings.TrimSpace(os.Getenv("ELASTIC_URL"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	c.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	c.PaymentProvider = strings.TrimSpace(os.Getenv("PAYMENT_PROVIDER"))
	if c.PaymentProvider == "" {
		c.PaymentProvider = "hosted"
	}
	c.PaymentWebhookSecret = strings.TrimSpace(os.Getenv("PAYMENT_WEBHOOK_SECRET"))
	c.DefaultRegisterLink = strings.TrimSpace(os.Getenv("DEFAULT_REGISTER_LINK"))

	c.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	c.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	c.AdminName = strings.TrimSpace(os.Getenv("ADMIN_NAME"))
	if c.AdminName == "" {
		c.AdminName = "Admin"
	}

	if c.PostgresDSN == "" {
		return c, fmt.Errorf("POSTGRES_DSN is empty")
	}
	// an unset secret would let anyone sign a "paid" callback
	if c.PaymentWebhookSecret == "" {
		return c, fmt.Errorf("PAYMENT_WEBHOOK_SECRET is empty")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return c, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return c, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
