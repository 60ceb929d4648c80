package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
)

func TestInventoryTransitionTable(t *testing.T) {
	for _, from := range InventoryStatuses() {
		allowed := map[string]bool{}
		for _, s := range AllowedInventoryTargets(from) {
			allowed[s] = true
		}
		for _, to := range InventoryStatuses() {
			err := CheckInventoryTransition(from, to)
			if allowed[to] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestInvoiceTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.InvoiceDraft, models.InvoiceSent, true},
		{models.InvoiceDraft, models.InvoicePaid, false},
		{models.InvoiceSent, models.InvoicePaid, true},
		{models.InvoiceSent, models.InvoiceCancelled, true},
		{models.InvoiceSent, models.InvoiceDraft, false},
		{models.InvoicePaid, models.InvoiceCancelled, false},
		{models.InvoiceCancelled, models.InvoiceSent, false},
	}
	for _, tc := range cases {
		err := CheckInvoiceTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesRejectSelfTransition(t *testing.T) {
	assert.Empty(t, AllowedInventoryTargets(models.ItemArchived))
	assert.Empty(t, AllowedInvoiceTargets(models.InvoicePaid))
	assert.Empty(t, AllowedInvoiceTargets(models.InvoiceCancelled))

	assert.ErrorIs(t, CheckInventoryTransition(models.ItemArchived, models.ItemArchived), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckInvoiceTransition(models.InvoicePaid, models.InvoicePaid), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckInvoiceTransition(models.InvoiceCancelled, models.InvoiceCancelled), apperr.ErrInvalidTransition)
	assert.ErrorIs(t, CheckInventoryTransition(models.ItemInStock, models.ItemInStock), apperr.ErrInvalidTransition)
}

func TestUnknownStatusListsValidStatuses(t *testing.T) {
	err := CheckInventoryTransition(models.ItemInStock, "returned")
	require.ErrorIs(t, err, apperr.ErrInvalidStatus)

	var te *apperr.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, InventoryStatuses(), te.ValidStatuses)
	assert.Equal(t, "returned", te.Target)
}

func TestTransitionErrorCarriesAllowedSet(t *testing.T) {
	err := CheckInventoryTransition(models.ItemSold, models.ItemListed)

	var te *apperr.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, models.ItemSold, te.Current)
	assert.Equal(t, models.ItemListed, te.Target)
	assert.Equal(t, []string{models.ItemShipped, models.ItemPaid}, te.Allowed)
}

func TestAllowedTargetsAreCopies(t *testing.T) {
	got := AllowedInventoryTargets(models.ItemInStock)
	got[0] = models.ItemArchived

	assert.Equal(t, []string{models.ItemListed, models.ItemSold}, AllowedInventoryTargets(models.ItemInStock))
}
