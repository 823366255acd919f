package hosted

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirdesai22/event-site/internal/models"
)

func TestCheckoutURL(t *testing.T) {
	p := New("s3cret")
	id := uuid.MustParse("5a05617f-377e-4d42-832c-ce51fc0c58d8")

	got, err := p.CheckoutURL(context.Background(), "https://rzp.io/l/summit?utm=site", models.Registration{ID: id})
	require.NoError(t, err)
	assert.Equal(t, "https://rzp.io/l/summit?ref=5a05617f-377e-4d42-832c-ce51fc0c58d8&utm=site", got)

	_, err = p.CheckoutURL(context.Background(), "  ", models.Registration{ID: id})
	require.Error(t, err)
}

func TestHandleWebhook(t *testing.T) {
	p := New("s3cret")
	body := []byte(`{"registrationId":"abc","status":"cancelled"}`)

	id, status, err := p.HandleWebhook(context.Background(), body, map[string]string{"x-signature": Sign("s3cret", body)})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, models.PaymentCancelled, status)

	_, _, err = p.HandleWebhook(context.Background(), body, map[string]string{"x-signature": Sign("other", body)})
	require.Error(t, err)
	_, _, err = p.HandleWebhook(context.Background(), body, map[string]string{})
	require.Error(t, err)
}

func TestHandleWebhookDefaultsToPaid(t *testing.T) {
	p := New("s3cret")
	body := []byte(`{"registrationId":"abc"}`)
	_, status, err := p.HandleWebhook(context.Background(), body, map[string]string{"x-signature": Sign("s3cret", body)})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, status)

	bad := []byte(`{"registrationId":"abc","status":"refunded"}`)
	_, _, err = p.HandleWebhook(context.Background(), bad, map[string]string{"x-signature": Sign("s3cret", bad)})
	require.Error(t, err)
}

func TestHandleWebhookWithoutSecret(t *testing.T) {
	p := New("")
	body := []byte(`{"registrationId":"abc","status":"paid"}`)
	_, _, err := p.HandleWebhook(context.Background(), body, map[string]string{"x-signature": Sign("", body)})
	require.Error(t, err)
}
