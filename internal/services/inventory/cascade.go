package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/ledger"
)

// Transition validates and applies a state machine move for item within tx.
// extra columns are written in the same compare-and-swap update.
func Transition(ctx context.Context, tx *repository.Store, item *models.InventoryItem, target string, extra map[string]interface{}, actor, reason string) error {
	if err := ledger.CheckInventoryTransition(item.Status, target); err != nil {
		return err
	}
	return apply(ctx, tx, item, target, extra, actor, reason)
}

// MarkSold moves a sellable item to sold at price. Items in any other status
// are left alone and MarkSold reports false.
func MarkSold(ctx context.Context, tx *repository.Store, item *models.InventoryItem, price decimal.Decimal, actor, reason string) (bool, error) {
	if !ledger.IsSellable(item.Status) {
		return false, nil
	}
	err := Transition(ctx, tx, item, models.ItemSold,
		map[string]interface{}{"actual_sell_price": price}, actor, reason)
	if err != nil {
		return false, err
	}
	item.ActualSellPrice = decimal.NewNullDecimal(price)
	return true, nil
}

// Restock reverts a sold item to in_stock and clears its sell price. This is
// the only move that bypasses the transition table: it undoes a sale rather
// than advancing the item. Items past sold are left alone.
func Restock(ctx context.Context, tx *repository.Store, item *models.InventoryItem, actor, reason string) (bool, error) {
	if item.Status != models.ItemSold {
		return false, nil
	}
	err := apply(ctx, tx, item, models.ItemInStock,
		map[string]interface{}{"actual_sell_price": nil}, actor, reason)
	if err != nil {
		return false, err
	}
	item.ActualSellPrice = decimal.NullDecimal{}
	return true, nil
}

func apply(ctx context.Context, tx *repository.Store, item *models.InventoryItem, target string, extra map[string]interface{}, actor, reason string) error {
	from := item.Status
	if err := tx.Items.CompareAndSetStatus(ctx, item.ID, from, target, extra); err != nil {
		return fmt.Errorf("inventory item %s: %w", item.ID, err)
	}
	if err := tx.Audit.Record(ctx, models.EntityInventoryItem, item.ID, item.UserID, from, target, actor, reason); err != nil {
		return err
	}
	item.Status = target
	return nil
}
