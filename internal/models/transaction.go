package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
	TxRefunded  = "refunded"
)

const (
	MethodStripe  = "stripe"
	MethodCashApp = "cashapp"
	MethodPayPal  = "paypal"
	MethodZelle   = "zelle"
	MethodVenmo   = "venmo"
	MethodCash    = "cash"
	MethodOther   = "other"
)

// PaymentMethods is every accepted value of Transaction.Method.
var PaymentMethods = []string{
	MethodStripe, MethodCashApp, MethodPayPal, MethodZelle, MethodVenmo, MethodCash, MethodOther,
}

// Transaction is a ledger entry. NetAmount is fixed at creation; only Status
// of an original ever changes (to refunded).
type Transaction struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	ItemID                *uuid.UUID      `gorm:"type:uuid;index" json:"item_id"`
	Method                string          `gorm:"size:20;not null" json:"method"`
	Status                string          `gorm:"size:20;index;not null;default:completed" json:"status"`
	GrossAmount           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"gross_amount"`
	FeeAmount             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"fee_amount"`
	NetAmount             decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"net_amount"`
	ExternalReferenceID   string          `gorm:"size:255" json:"external_reference_id"`
	Notes                 string          `json:"notes"`
	IsRefund              bool            `gorm:"not null;default:false" json:"is_refund"`
	OriginalTransactionID *uuid.UUID      `gorm:"type:uuid;index" json:"original_transaction_id"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
