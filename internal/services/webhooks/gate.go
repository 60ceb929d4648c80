package webhooks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/repository"
)

type EventType string

const (
	PaymentIntentSucceeded EventType = "payment_intent.succeeded"
	SubscriptionCreated    EventType = "customer.subscription.created"
	SubscriptionDeleted    EventType = "customer.subscription.deleted"
	InvoicePaymentFailed   EventType = "invoice.payment_failed"
)

type Outcome string

const (
	Ignored          Outcome = "ignored"
	AlreadyProcessed Outcome = "already_processed"
	Processed        Outcome = "processed"
)

// InvoicePayer pays an invoice from a succeeded payment intent.
type InvoicePayer interface {
	MarkPaidFromIntent(ctx context.Context, invoiceID uuid.UUID, intentID string) (bool, error)
}

// SubscriptionHandler applies subscription lifecycle events.
type SubscriptionHandler interface {
	Activate(ctx context.Context, object json.RawMessage) error
	Cancel(ctx context.Context, object json.RawMessage) error
	MarkPastDue(ctx context.Context, object json.RawMessage) error
}

type handlerFunc func(ctx context.Context, object json.RawMessage) error

// Gate deduplicates provider events by id and dispatches the handled types.
//
// The event id is recorded after its handler succeeds. A crash between the
// two lets a redelivery run the handler again; invoice payment is guarded by
// the invoice state machine, subscription updates are idempotent.
type Gate struct {
	store    *repository.Store
	logger   *zap.Logger
	handlers map[EventType]handlerFunc
}

func NewGate(store *repository.Store, logger *zap.Logger, invoices InvoicePayer, subs SubscriptionHandler) *Gate {
	g := &Gate{store: store, logger: logger}
	g.handlers = map[EventType]handlerFunc{
		PaymentIntentSucceeded: func(ctx context.Context, object json.RawMessage) error {
			return handlePaymentIntent(ctx, invoices, logger, object)
		},
		SubscriptionCreated:  subs.Activate,
		SubscriptionDeleted:  subs.Cancel,
		InvoicePaymentFailed: subs.MarkPastDue,
	}
	return g
}

// Handles reports whether t is on the allow-list.
func (g *Gate) Handles(t string) bool {
	_, ok := g.handlers[EventType(t)]
	return ok
}

// Process runs ev at most once per event id, modulo the window described on
// Gate. Unhandled types are ignored and not recorded, so they are not
// blocked if they become handled later. A handler error leaves the event
// unrecorded so the provider's retry runs it again.
func (g *Gate) Process(ctx context.Context, ev payments.Event) (Outcome, error) {
	handler, ok := g.handlers[EventType(ev.Type)]
	if !ok {
		g.logger.Debug("webhook event ignored", zap.String("event_type", ev.Type))
		return Ignored, nil
	}

	seen, err := g.store.Webhooks.Exists(ctx, ev.ID)
	if err != nil {
		return "", fmt.Errorf("check webhook event: %w", err)
	}
	if seen {
		g.logger.Info("webhook event already processed", zap.String("event_id", ev.ID))
		return AlreadyProcessed, nil
	}

	if err := handler(ctx, ev.Object); err != nil {
		g.logger.Error("webhook handler failed",
			zap.String("event_id", ev.ID),
			zap.String("event_type", ev.Type),
			zap.Error(err))
		return "", err
	}

	created, err := g.store.Webhooks.CreateIfNotExists(ctx, &models.WebhookEvent{
		EventID:   ev.ID,
		EventType: ev.Type,
		Processed: true,
		Payload:   datatypes.JSON(ev.Object),
	})
	if err != nil {
		return "", fmt.Errorf("record webhook event: %w", err)
	}
	if !created {
		g.logger.Warn("webhook event recorded by a concurrent delivery", zap.String("event_id", ev.ID))
	}

	g.logger.Info("webhook event processed",
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type))
	return Processed, nil
}

type paymentIntent struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

func handlePaymentIntent(ctx context.Context, invoices InvoicePayer, logger *zap.Logger, raw json.RawMessage) error {
	var pi paymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		return fmt.Errorf("decode payment intent: %w", err)
	}
	invoiceID, err := uuid.Parse(pi.Metadata["invoice_id"])
	if err != nil {
		logger.Debug("payment intent without invoice", zap.String("payment_intent_id", pi.ID))
		return nil
	}
	_, err = invoices.MarkPaidFromIntent(ctx, invoiceID, pi.ID)
	return err
}
