// Package features maps subscription tiers to the features they unlock.
package features

import (
	"sort"

	"github.com/shopspring/decimal"

	"reseller-ledger-backend/internal/models"
)

type Feature struct {
	Tiers           []string
	RequiresPartner bool
	Description     string
}

var catalog = map[string]Feature{
	"inventory_crud":  {Tiers: []string{models.TierFree, models.TierPro}, Description: "Create/edit/delete inventory items"},
	"manual_payment":  {Tiers: []string{models.TierFree, models.TierPro}, Description: "Log manual payments"},
	"dashboard_basic": {Tiers: []string{models.TierFree, models.TierPro}, Description: "Basic revenue dashboard"},
	"quick_sale":      {Tiers: []string{models.TierFree, models.TierPro}, Description: "Quick sale flow"},

	"barcode_scanning":   {Tiers: []string{models.TierPro}, Description: "Scan UPC barcodes to add items"},
	"csv_export":         {Tiers: []string{models.TierPro}, Description: "Export inventory and transactions as CSV"},
	"invoices":           {Tiers: []string{models.TierPro}, Description: "Create and send customer invoices"},
	"stripe_payments":    {Tiers: []string{models.TierPro}, Description: "Accept Stripe payments"},
	"analytics_advanced": {Tiers: []string{models.TierPro}, Description: "Advanced analytics and reporting"},
	"unlimited_items":    {Tiers: []string{models.TierPro}, Description: "Unlimited inventory items"},

	"seller_page":    {Tiers: []string{models.TierPro}, RequiresPartner: true, Description: "Public seller profile page"},
	"verified_badge": {Tiers: []string{models.TierPro}, RequiresPartner: true, Description: "Verified seller badge"},
}

// Enabled reports whether feature is available to a user on tier.
func Enabled(feature, tier string, partner bool) bool {
	f, ok := catalog[feature]
	if !ok {
		return false
	}
	if f.RequiresPartner && !partner {
		return false
	}
	for _, t := range f.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Flags returns every feature with its state for the given tier.
func Flags(tier string, partner bool) map[string]bool {
	flags := make(map[string]bool, len(catalog))
	for name := range catalog {
		flags[name] = Enabled(name, tier, partner)
	}
	return flags
}

type TierInfo struct {
	Tier      string          `json:"tier"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ItemLimit *int            `json:"item_limit"`
	Features  []string        `json:"features"`
}

// Tiers describes the plans for the upgrade flow. Partner-only features are
// not listed.
func Tiers(freeItemLimit int, proPrice decimal.Decimal) []TierInfo {
	limit := freeItemLimit
	return []TierInfo{
		{Tier: models.TierFree, Name: "Free", Price: decimal.Zero, ItemLimit: &limit, Features: tierFeatures(models.TierFree)},
		{Tier: models.TierPro, Name: "Pro", Price: proPrice, Features: tierFeatures(models.TierPro)},
	}
}

func tierFeatures(tier string) []string {
	var names []string
	for name, f := range catalog {
		if !f.RequiresPartner && Enabled(name, tier, false) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
