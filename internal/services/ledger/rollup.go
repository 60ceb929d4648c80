package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/models"
)

// TxRow is the projection of a transaction the rollups need.
type TxRow struct {
	GrossAmount decimal.Decimal `db:"gross_amount"`
	NetAmount   decimal.Decimal `db:"net_amount"`
	Status      string          `db:"status"`
	IsRefund    bool            `db:"is_refund"`
	CreatedAt   time.Time       `db:"created_at"`
}

// ItemRow is the projection of an active inventory item the rollups need.
type ItemRow struct {
	BuyPrice          decimal.NullDecimal `db:"buy_price"`
	ExpectedSellPrice decimal.NullDecimal `db:"expected_sell_price"`
	Status            string              `db:"status"`
	UpdatedAt         time.Time           `db:"updated_at"`
}

// countsAsSale is true for non-refund rows that represent money received,
// including originals that were later refunded.
func countsAsSale(t TxRow) bool {
	return !t.IsRefund && (t.Status == models.TxCompleted || t.Status == models.TxRefunded)
}

func isSoldStatus(s string) bool {
	switch s {
	case models.ItemSold, models.ItemShipped, models.ItemPaid, models.ItemArchived:
		return true
	}
	return false
}

func onOrAfter(t time.Time, since *time.Time) bool {
	return since == nil || !t.Before(*since)
}

// Revenue is gross sales since the given instant (nil = all time).
func Revenue(txs []TxRow, since *time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if countsAsSale(t) && onOrAfter(t.CreatedAt, since) {
			sum = sum.Add(t.GrossAmount)
		}
	}
	return sum
}

// RefundTotal is the gross amount of refunds issued since the given instant.
func RefundTotal(txs []TxRow, since *time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.IsRefund && onOrAfter(t.CreatedAt, since) {
			sum = sum.Add(t.GrossAmount)
		}
	}
	return sum
}

// CostBasis sums buy prices of items that left stock since the given
// instant, using updated_at as the sale time.
func CostBasis(items []ItemRow, since *time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if isSoldStatus(it.Status) && it.BuyPrice.Valid && onOrAfter(it.UpdatedAt, since) {
			sum = sum.Add(it.BuyPrice.Decimal)
		}
	}
	return sum
}

// NetProfit is sales net plus refund net (negative) minus cost basis.
func NetProfit(txs []TxRow, items []ItemRow, since *time.Time) decimal.Decimal {
	salesNet, refundNet := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if !onOrAfter(t.CreatedAt, since) {
			continue
		}
		switch {
		case t.IsRefund:
			refundNet = refundNet.Add(t.NetAmount)
		case countsAsSale(t):
			salesNet = salesNet.Add(t.NetAmount)
		}
	}
	return salesNet.Add(refundNet).Sub(CostBasis(items, since))
}

type InventoryValue struct {
	CostValue       decimal.Decimal `json:"inventory_value"`
	ExpectedValue   decimal.Decimal `json:"expected_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

// ValueInventory sums buy and expected sell prices of unsold stock.
func ValueInventory(items []ItemRow) InventoryValue {
	var v InventoryValue
	for _, it := range items {
		if !IsSellable(it.Status) {
			continue
		}
		if it.BuyPrice.Valid {
			v.CostValue = v.CostValue.Add(it.BuyPrice.Decimal)
		}
		if it.ExpectedSellPrice.Valid {
			v.ExpectedValue = v.ExpectedValue.Add(it.ExpectedSellPrice.Decimal)
		}
	}
	v.PotentialProfit = v.ExpectedValue.Sub(v.CostValue)
	return v
}

type ItemCounts struct {
	Total    int `json:"total_items"`
	InStock  int `json:"in_stock_count"`
	Listed   int `json:"listed_count"`
	Sold     int `json:"items_sold"`
	Archived int `json:"archived_count"`
}

func CountItems(items []ItemRow) ItemCounts {
	c := ItemCounts{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case models.ItemInStock:
			c.InStock++
		case models.ItemListed:
			c.Listed++
		case models.ItemSold, models.ItemShipped, models.ItemPaid:
			c.Sold++
		case models.ItemArchived:
			c.Archived++
		}
	}
	return c
}

type TxCounts struct {
	Transactions int `json:"total_transactions"`
	Refunds      int `json:"total_refunds"`
}

func CountTransactions(txs []TxRow) TxCounts {
	var c TxCounts
	for _, t := range txs {
		if t.IsRefund {
			c.Refunds++
		} else {
			c.Transactions++
		}
	}
	return c
}
