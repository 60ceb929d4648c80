// Package payments wraps the Stripe SDK: webhook signature verification and
// PaymentIntent creation.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"reseller-ledger-backend/internal/apperr"
)

// Event is a provider event reduced to what the webhook gate needs.
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

// Intent is a created PaymentIntent.
type Intent struct {
	ID           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}

// Client talks to Stripe. A zero secret key disables intent creation; a zero
// webhook secret disables signature checks.
type Client struct {
	api           *client.API
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string) *Client {
	c := &Client{webhookSecret: webhookSecret}
	if secretKey != "" {
		c.api = client.New(secretKey, nil)
	}
	return c
}

// Enabled reports whether PaymentIntents can be created.
func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

// CreatePaymentIntent creates a USD intent for amountCents.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*Intent, error) {
	if !c.Enabled() {
		return nil, apperr.ErrPaymentsUnavailable
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies the Stripe-Signature header when a webhook secret is
// configured. Without one the payload is decoded as-is, which is only meant
// for local development.
func (c *Client) ParseEvent(payload []byte, signature string) (*Event, error) {
	if c != nil && c.webhookSecret != "" {
		ev, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidSignature, err)
		}
		var object json.RawMessage
		if ev.Data != nil {
			object = ev.Data.Raw
		}
		return &Event{ID: ev.ID, Type: string(ev.Type), Object: object}, nil
	}

	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON payload", apperr.ErrInvalidSignature)
	}
	return &Event{ID: raw.ID, Type: raw.Type, Object: raw.Data.Object}, nil
}
