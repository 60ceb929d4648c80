package ledger

import (
	"github.com/shopspring/decimal"
)

// Net is the amount kept after fees.
func Net(gross, fee decimal.Decimal) decimal.Decimal {
	return gross.Sub(fee)
}

// ItemProfit is sell - buy - fee.
func ItemProfit(sell, buy, fee decimal.Decimal) decimal.Decimal {
	return sell.Sub(buy).Sub(fee)
}

// ValidAmount reports whether d is non-negative with at most two fractional
// digits.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(2))
}

// Line is the input for one invoice row.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}

// InvoiceTotals computes line totals, the subtotal, and the total clamped at
// zero.
func InvoiceTotals(lines []Line, tax, shipping, discount decimal.Decimal) Totals {
	totals := Totals{LineTotals: make([]decimal.Decimal, len(lines))}
	for i, l := range lines {
		lt := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
		totals.LineTotals[i] = lt
		totals.Subtotal = totals.Subtotal.Add(lt)
	}
	total := totals.Subtotal.Add(tax).Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	totals.Total = total.Round(2)
	return totals
}

// Cents converts a two-place amount to integer minor units.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
