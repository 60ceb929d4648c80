package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

type Invoice struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	CustomerName          string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail         string          `gorm:"size:255" json:"customer_email"`
	Subtotal              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax                   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	Shipping              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"shipping"`
	Discount              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount"`
	Total                 decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status                string          `gorm:"size:20;index;not null;default:draft" json:"status"`
	StripePaymentIntentID *string         `gorm:"size:255;index" json:"stripe_payment_intent_id"`
	Notes                 string          `json:"notes"`
	Items                 []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ShortID is the first eight characters of the invoice id, used in
// transaction notes.
func (i *Invoice) ShortID() string {
	return i.ID.String()[:8]
}

type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"invoice_id"`
	InventoryItemID *uuid.UUID      `gorm:"type:uuid" json:"inventory_item_id"`
	Position        int             `gorm:"not null" json:"position"`
	Description     string          `gorm:"size:500;not null" json:"description"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	LineTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"line_total"`
}
