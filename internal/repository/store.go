package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reseller-ledger-backend/internal/apperr"
)

// Store groups the repositories over one *gorm.DB. Inside Transaction the
// callback receives a Store bound to the open database transaction; every
// write made through it commits or rolls back together.
type Store struct {
	db *gorm.DB

	Users         *UserRepository
	Subscriptions *SubscriptionRepository
	Items         *InventoryRepository
	Transactions  *TransactionRepository
	Invoices      *InvoiceRepository
	Webhooks      *WebhookEventRepository
	Audit         *AuditLogRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Items:         NewInventoryRepository(db),
		Transactions:  NewTransactionRepository(db),
		Invoices:      NewInvoiceRepository(db),
		Webhooks:      NewWebhookEventRepository(db),
		Audit:         NewAuditLogRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn in a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(NewStore(gtx))
	})
}

// Page is offset pagination. Zero values select the first 20 rows.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) normalize() (limit, offset int) {
	limit = p.PerPage
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	return err
}

// compareAndSet applies updates only while the row is still in status from.
func compareAndSet(db *gorm.DB, model interface{}, id interface{}, from string, updates map[string]interface{}) error {
	res := db.Model(model).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	return nil
}
