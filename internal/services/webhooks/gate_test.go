package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/invoicing"
	"reseller-ledger-backend/internal/services/subscriptions"
	"reseller-ledger-backend/internal/testdb"
)

type fixture struct {
	gate     *Gate
	store    *repository.Store
	invoices *invoicing.Service
}

func newFixture(t *testing.T) *fixture {
	store := repository.NewStore(testdb.New(t))
	log := zap.NewNop()
	invoices := invoicing.NewService(store, log, nil, nil)
	subs := subscriptions.NewService(store, log, testdb.Money("20.00"))
	return &fixture{gate: NewGate(store, log, invoices, subs), store: store, invoices: invoices}
}

func (f *fixture) sentInvoice(t *testing.T, owner uuid.UUID) *models.Invoice {
	ctx := context.Background()
	inv, err := f.invoices.Create(ctx, owner, invoicing.CreateInput{
		CustomerName: "Dana Buyer",
		Items: []invoicing.LineInput{
			{Description: "Jordan 1", Quantity: 1, UnitPrice: testdb.Money("150.00")},
			{Description: "Socks", Quantity: 2, UnitPrice: testdb.Money("50.00")},
		},
	})
	require.NoError(t, err)
	inv, err = f.invoices.TransitionStatus(ctx, owner, inv.ID, models.InvoiceSent)
	require.NoError(t, err)
	return inv
}

func (f *fixture) countTransactions(t *testing.T, owner uuid.UUID) int64 {
	_, total, err := f.store.Transactions.List(context.Background(), owner, repository.Page{})
	require.NoError(t, err)
	return total
}

func (f *fixture) countEvents(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.store.DB().Model(&models.WebhookEvent{}).Count(&n).Error)
	return n
}

func paymentEvent(id string, invoiceID uuid.UUID) payments.Event {
	return payments.Event{
		ID:     id,
		Type:   string(PaymentIntentSucceeded),
		Object: json.RawMessage(fmt.Sprintf(`{"id":"pi_1","metadata":{"invoice_id":"%s"}}`, invoiceID)),
	}
}

func TestReplayIsAlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.User(t, f.store.DB(), models.TierPro)
	inv := f.sentInvoice(t, user.ID)

	out, err := f.gate.Process(ctx, paymentEvent("evt_X", inv.ID))
	require.NoError(t, err)
	assert.Equal(t, Processed, out)
	assert.EqualValues(t, 2, f.countTransactions(t, user.ID))

	got, err := f.invoices.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, got.Status)

	out, err = f.gate.Process(ctx, paymentEvent("evt_X", inv.ID))
	require.NoError(t, err)
	assert.Equal(t, AlreadyProcessed, out)
	assert.EqualValues(t, 2, f.countTransactions(t, user.ID))
	assert.EqualValues(t, 1, f.countEvents(t))
}

func TestSecondEventForPaidInvoiceIsHarmless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.User(t, f.store.DB(), models.TierPro)
	inv := f.sentInvoice(t, user.ID)

	_, err := f.gate.Process(ctx, paymentEvent("evt_1", inv.ID))
	require.NoError(t, err)

	out, err := f.gate.Process(ctx, paymentEvent("evt_2", inv.ID))
	require.NoError(t, err)
	assert.Equal(t, Processed, out)
	assert.EqualValues(t, 2, f.countTransactions(t, user.ID))
	assert.EqualValues(t, 2, f.countEvents(t))
}

func TestUnknownTypeIsIgnoredAndNotRecorded(t *testing.T) {
	f := newFixture(t)

	out, err := f.gate.Process(context.Background(), payments.Event{ID: "evt_Y", Type: "charge.refunded", Object: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, Ignored, out)
	assert.Zero(t, f.countEvents(t))
	assert.False(t, f.gate.Handles("charge.refunded"))
	assert.True(t, f.gate.Handles(string(SubscriptionDeleted)))
}

func TestPaymentIntentWithoutInvoiceIsRecorded(t *testing.T) {
	f := newFixture(t)

	out, err := f.gate.Process(context.Background(), payments.Event{
		ID:     "evt_Z",
		Type:   string(PaymentIntentSucceeded),
		Object: json.RawMessage(`{"id":"pi_9","metadata":{}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, Processed, out)
	assert.EqualValues(t, 1, f.countEvents(t))
}

func TestPaymentForDraftInvoiceIsRecordedWithoutEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.User(t, f.store.DB(), models.TierPro)
	inv, err := f.invoices.Create(ctx, user.ID, invoicing.CreateInput{
		CustomerName: "Dana Buyer",
		Items:        []invoicing.LineInput{{Description: "x", Quantity: 1, UnitPrice: testdb.Money("10.00")}},
	})
	require.NoError(t, err)

	out, err := f.gate.Process(ctx, paymentEvent("evt_D", inv.ID))
	require.NoError(t, err)
	assert.Equal(t, Processed, out)
	assert.Zero(t, f.countTransactions(t, user.ID))
}

func TestSubscriptionEventsChangeTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testdb.User(t, f.store.DB(), models.TierFree)

	out, err := f.gate.Process(ctx, payments.Event{
		ID:     "evt_sub_1",
		Type:   string(SubscriptionCreated),
		Object: json.RawMessage(fmt.Sprintf(`{"id":"sub_7","metadata":{"user_id":"%s"}}`, user.ID)),
	})
	require.NoError(t, err)
	assert.Equal(t, Processed, out)

	u, err := f.store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, u.SubscriptionTier)

	out, err = f.gate.Process(ctx, payments.Event{ID: "evt_sub_2", Type: string(SubscriptionDeleted), Object: json.RawMessage(`{"id":"sub_7"}`)})
	require.NoError(t, err)
	assert.Equal(t, Processed, out)

	u, err = f.store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, u.SubscriptionTier)
}

type failingPayer struct{}

func (failingPayer) MarkPaidFromIntent(context.Context, uuid.UUID, string) (bool, error) {
	return false, errors.New("database unavailable")
}

func TestHandlerFailureIsNotRecorded(t *testing.T) {
	store := repository.NewStore(testdb.New(t))
	subs := subscriptions.NewService(store, zap.NewNop(), testdb.Money("20.00"))
	gate := NewGate(store, zap.NewNop(), failingPayer{}, subs)

	_, err := gate.Process(context.Background(), paymentEvent("evt_F", uuid.New()))
	assert.Error(t, err)

	seen, err := store.Webhooks.Exists(context.Background(), "evt_F")
	require.NoError(t, err)
	assert.False(t, seen)
}
