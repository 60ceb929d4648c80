package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create inserts the invoice and its line items.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceDraft
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(inv).Error
}

// GetByID fetches an owned invoice with its line items in order.
func (r *InvoiceRepository) GetByID(ctx context.Context, owner, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := withItems(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, owner).
		First(&inv).Error
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	return &inv, nil
}

// Find fetches an invoice by id alone. Used by webhook handlers, where the
// owner comes from the invoice row itself.
func (r *InvoiceRepository) Find(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := withItems(r.db.WithContext(ctx)).First(&inv, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "invoice")
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, owner uuid.UUID, status string, p Page) ([]models.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("user_id = ?", owner)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := p.normalize()
	var invoices []models.Invoice
	err := withItems(q).Order("created_at DESC").Limit(limit).Offset(offset).Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	return compareAndSet(r.db.WithContext(ctx), &models.Invoice{}, id, from,
		map[string]interface{}{"status": to})
}

func (r *InvoiceRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	return r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("stripe_payment_intent_id", intentID).Error
}
