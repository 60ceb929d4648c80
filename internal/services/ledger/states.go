package ledger

import (
	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
)

// Transition tables. Status order in each slice is the order reported back to
// clients. The maps are never mutated after init; callers only see copies.
var (
	inventoryStatuses = []string{
		models.ItemInStock, models.ItemListed, models.ItemSold,
		models.ItemShipped, models.ItemPaid, models.ItemArchived,
	}
	inventoryTransitions = map[string][]string{
		models.ItemInStock:  {models.ItemListed, models.ItemSold},
		models.ItemListed:   {models.ItemSold, models.ItemInStock},
		models.ItemSold:     {models.ItemShipped, models.ItemPaid},
		models.ItemShipped:  {models.ItemPaid},
		models.ItemPaid:     {models.ItemArchived},
		models.ItemArchived: {},
	}

	invoiceStatuses = []string{
		models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid, models.InvoiceCancelled,
	}
	invoiceTransitions = map[string][]string{
		models.InvoiceDraft:     {models.InvoiceSent},
		models.InvoiceSent:      {models.InvoicePaid, models.InvoiceCancelled},
		models.InvoicePaid:      {},
		models.InvoiceCancelled: {},
	}
)

func InventoryStatuses() []string { return clone(inventoryStatuses) }

func InvoiceStatuses() []string { return clone(invoiceStatuses) }

// AllowedInventoryTargets returns the statuses reachable from current.
func AllowedInventoryTargets(current string) []string {
	return clone(inventoryTransitions[current])
}

func AllowedInvoiceTargets(current string) []string {
	return clone(invoiceTransitions[current])
}

// CheckInventoryTransition validates moving an item from current to target.
func CheckInventoryTransition(current, target string) error {
	return check("inventory item", inventoryStatuses, inventoryTransitions, current, target)
}

// CheckInvoiceTransition validates moving an invoice from current to target.
func CheckInvoiceTransition(current, target string) error {
	return check("invoice", invoiceStatuses, invoiceTransitions, current, target)
}

// IsSellable reports whether an item in status may be moved to sold by a
// sale or invoice payment.
func IsSellable(status string) bool {
	return status == models.ItemInStock || status == models.ItemListed
}

func check(entity string, valid []string, table map[string][]string, current, target string) error {
	if _, ok := table[target]; !ok {
		return apperr.NewInvalidStatus(entity, current, target, clone(valid))
	}
	for _, s := range table[current] {
		if s == target {
			return nil
		}
	}
	return apperr.NewInvalidTransition(entity, current, target, clone(table[current]))
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
