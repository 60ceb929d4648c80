package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/inventory"
	"reseller-ledger-backend/internal/services/ledger"
)

// IntentCreator creates provider payment intents.
type IntentCreator interface {
	Enabled() bool
	CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*payments.Intent, error)
}

type Service struct {
	store       *repository.Store
	logger      *zap.Logger
	intents     IntentCreator
	invalidator ledger.Invalidator
}

func NewService(store *repository.Store, logger *zap.Logger, intents IntentCreator, inv ledger.Invalidator) *Service {
	return &Service{store: store, logger: logger, intents: intents, invalidator: ledger.OrNop(inv)}
}

type LineInput struct {
	Description     string          `json:"description" binding:"required,max=500"`
	Quantity        int             `json:"quantity" binding:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"money"`
	InventoryItemID *uuid.UUID      `json:"inventory_item_id"`
}

type CreateInput struct {
	CustomerName  string          `json:"customer_name" binding:"required,max=255"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email"`
	Tax           decimal.Decimal `json:"tax" binding:"money"`
	Shipping      decimal.Decimal `json:"shipping" binding:"money"`
	Discount      decimal.Decimal `json:"discount" binding:"money"`
	Notes         string          `json:"notes"`
	Items         []LineInput     `json:"items" binding:"required,min=1,dive"`
}

func (in CreateInput) validate() error {
	if in.CustomerName == "" || len(in.Items) == 0 {
		return fmt.Errorf("customer name and at least one line item are required: %w", apperr.ErrInvalidInput)
	}
	for _, d := range []decimal.Decimal{in.Tax, in.Shipping, in.Discount} {
		if !ledger.ValidAmount(d) {
			return apperr.ErrInvalidAmount
		}
	}
	for _, l := range in.Items {
		if l.Quantity < 1 || l.Description == "" {
			return fmt.Errorf("line items need a description and a positive quantity: %w", apperr.ErrInvalidInput)
		}
		if !ledger.ValidAmount(l.UnitPrice) {
			return apperr.ErrInvalidAmount
		}
	}
	return nil
}

// Create stores a draft invoice with computed totals. Linked inventory items
// must belong to the owner and be active.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*models.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lines := make([]ledger.Line, len(in.Items))
	for i, l := range in.Items {
		lines[i] = ledger.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	totals := ledger.InvoiceTotals(lines, in.Tax, in.Shipping, in.Discount)

	inv := &models.Invoice{
		ID:            uuid.New(),
		UserID:        owner,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Subtotal:      totals.Subtotal,
		Tax:           in.Tax,
		Shipping:      in.Shipping,
		Discount:      in.Discount,
		Total:         totals.Total,
		Status:        models.InvoiceDraft,
		Notes:         in.Notes,
	}
	for i, l := range in.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			InventoryItemID: l.InventoryItemID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       totals.LineTotals[i],
		})
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		for _, l := range in.Items {
			if l.InventoryItemID == nil {
				continue
			}
			if _, err := tx.Items.GetActive(ctx, owner, *l.InventoryItemID); err != nil {
				return err
			}
		}
		return tx.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	return s.store.Invoices.GetByID(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, status string, p repository.Page) ([]models.Invoice, int64, error) {
	return s.store.Invoices.List(ctx, owner, status, p)
}

// TransitionStatus moves an owned invoice along the invoice state machine.
// Moving to paid runs the payment cascade in the same database transaction.
func (s *Service) TransitionStatus(ctx context.Context, owner, id uuid.UUID, target string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if inv, err = tx.Invoices.GetByID(ctx, owner, id); err != nil {
			return err
		}
		return s.transition(ctx, tx, inv, target, owner.String())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice status changed",
		zap.String("invoice_id", id.String()),
		zap.String("status", inv.Status))
	s.invalidator.Invalidate(ctx, owner)
	return inv, nil
}

// MarkPaidFromIntent is the webhook path to paid. A missing or already paid
// invoice is a no-op; so is an invoice the state machine refuses to pay,
// which is logged. It reports whether the invoice was paid by this call.
func (s *Service) MarkPaidFromIntent(ctx context.Context, invoiceID uuid.UUID, intentID string) (bool, error) {
	var inv *models.Invoice
	paid := false

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		inv, err = tx.Invoices.Find(ctx, invoiceID)
		if apperr.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if inv.Status == models.InvoicePaid {
			return nil
		}
		if inv.StripePaymentIntentID == nil && intentID != "" {
			if err := tx.Invoices.SetPaymentIntent(ctx, inv.ID, intentID); err != nil {
				return err
			}
			inv.StripePaymentIntentID = &intentID
		}
		if err := s.transition(ctx, tx, inv, models.InvoicePaid, ledger.ActorWebhook); err != nil {
			return err
		}
		paid = true
		return nil
	})

	var te *apperr.TransitionError
	if errors.As(err, &te) {
		s.logger.Warn("payment received for invoice that cannot be paid",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("status", te.Current))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if paid {
		s.logger.Info("invoice paid from payment intent",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("payment_intent_id", intentID))
		s.invalidator.Invalidate(ctx, inv.UserID)
	}
	return paid, nil
}

// CreatePaymentIntent opens a Stripe payment for a sent invoice. Pro tier only.
func (s *Service) CreatePaymentIntent(ctx context.Context, owner, id uuid.UUID) (*payments.Intent, error) {
	if s.intents == nil || !s.intents.Enabled() {
		return nil, apperr.ErrPaymentsUnavailable
	}
	user, err := s.store.Users.GetByID(ctx, owner)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionTier != models.TierPro {
		return nil, apperr.ErrProRequired
	}
	inv, err := s.store.Invoices.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceSent {
		return nil, apperr.ErrInvoiceNotPayable
	}

	intent, err := s.intents.CreatePaymentIntent(ctx, ledger.Cents(inv.Total), map[string]string{
		"invoice_id": inv.ID.String(),
		"user_id":    owner.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Invoices.SetPaymentIntent(ctx, inv.ID, intent.ID); err != nil {
		return nil, err
	}
	return intent, nil
}

// History returns the recorded status changes of an invoice.
func (s *Service) History(ctx context.Context, owner, id uuid.UUID) ([]models.StatusAuditLog, error) {
	if _, err := s.store.Invoices.GetByID(ctx, owner, id); err != nil {
		return nil, err
	}
	return s.store.Audit.ForEntity(ctx, owner, models.EntityInvoice, id)
}

func (s *Service) transition(ctx context.Context, tx *repository.Store, inv *models.Invoice, target, actor string) error {
	if err := ledger.CheckInvoiceTransition(inv.Status, target); err != nil {
		return err
	}
	from := inv.Status
	if err := tx.Invoices.CompareAndSetStatus(ctx, inv.ID, from, target); err != nil {
		return fmt.Errorf("invoice %s: %w", inv.ID, err)
	}
	if err := tx.Audit.Record(ctx, models.EntityInvoice, inv.ID, inv.UserID, from, target, actor, ""); err != nil {
		return err
	}
	inv.Status = target

	if target == models.InvoicePaid {
		return s.payCascade(ctx, tx, inv, actor)
	}
	return nil
}

// payCascade books one completed transaction per line item and sells any
// linked item that is still in stock or listed.
func (s *Service) payCascade(ctx context.Context, tx *repository.Store, inv *models.Invoice, actor string) error {
	method := models.MethodOther
	if inv.StripePaymentIntentID != nil && *inv.StripePaymentIntentID != "" {
		method = models.MethodStripe
	}

	for _, line := range inv.Items {
		txn := &models.Transaction{
			UserID:      inv.UserID,
			ItemID:      line.InventoryItemID,
			Method:      method,
			Status:      models.TxCompleted,
			GrossAmount: line.LineTotal,
			FeeAmount:   decimal.Zero,
			NetAmount:   line.LineTotal,
			Notes:       fmt.Sprintf("Invoice #%s - %s", inv.ShortID(), line.Description),
		}
		if inv.StripePaymentIntentID != nil {
			txn.ExternalReferenceID = *inv.StripePaymentIntentID
		}
		if err := tx.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		if line.InventoryItemID == nil {
			continue
		}
		item, err := tx.Items.FindActive(ctx, *line.InventoryItemID)
		if apperr.IsNotFound(err) {
			continue
		}
		if err != nil {
			return err
		}
		if item.UserID != inv.UserID {
			continue
		}
		if _, err := inventory.MarkSold(ctx, tx, item, line.UnitPrice, actor, "invoice "+inv.ID.String()); err != nil {
			return err
		}
	}
	return nil
}
