package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"reseller-ledger-backend/internal/apperr"
)

const payload = `{"id":"evt_123","object":"event","api_version":"2024-06-20","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"invoice_id":"abc"}}}}`

func TestParseEventWithoutSecret(t *testing.T) {
	c := NewClient("", "")

	ev, err := c.ParseEvent([]byte(payload), "")
	require.NoError(t, err)
	assert.Equal(t, "evt_123", ev.ID)
	assert.Equal(t, "payment_intent.succeeded", ev.Type)
	assert.JSONEq(t, `{"id":"pi_1","metadata":{"invoice_id":"abc"}}`, string(ev.Object))

	_, err = c.ParseEvent([]byte("not json"), "")
	assert.ErrorIs(t, err, apperr.ErrInvalidSignature)
}

func TestParseEventVerifiesSignature(t *testing.T) {
	secret := "whsec_test"
	c := NewClient("", secret)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	ev, err := c.ParseEvent(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", ev.ID)
	assert.JSONEq(t, `{"id":"pi_1","metadata":{"invoice_id":"abc"}}`, string(ev.Object))

	_, err = c.ParseEvent(signed.Payload, fmt.Sprintf("t=%d,v1=deadbeef", time.Now().Unix()))
	assert.ErrorIs(t, err, apperr.ErrInvalidSignature)
}

func TestCreatePaymentIntentRequiresKey(t *testing.T) {
	c := NewClient("", "")

	assert.False(t, c.Enabled())
	_, err := c.CreatePaymentIntent(context.Background(), 1000, nil)
	assert.ErrorIs(t, err, apperr.ErrPaymentsUnavailable)
}
