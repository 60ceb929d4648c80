package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&InventoryItem{},
		&Transaction{},
		&Invoice{},
		&InvoiceItem{},
		&WebhookEvent{},
		&StatusAuditLog{},
	}
}
