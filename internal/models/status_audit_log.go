package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityInventoryItem = "inventory_item"
	EntityInvoice       = "invoice"
	EntityTransaction   = "transaction"
)

// StatusAuditLog is appended for every status change, in the same database
// transaction as the change itself.
type StatusAuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string    `gorm:"size:30;index:idx_audit_entity" json:"entity_type"`
	EntityID    uuid.UUID `gorm:"type:uuid;index:idx_audit_entity" json:"entity_id"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	PerformedBy string    `json:"performed_by"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}
