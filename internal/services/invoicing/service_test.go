package invoicing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/payments"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/testdb"
)

type fakeIntents struct {
	enabled  bool
	amount   int64
	metadata map[string]string
}

func (f *fakeIntents) Enabled() bool { return f.enabled }

func (f *fakeIntents) CreatePaymentIntent(_ context.Context, amountCents int64, metadata map[string]string) (*payments.Intent, error) {
	f.amount = amountCents
	f.metadata = metadata
	return &payments.Intent{ID: "pi_test_1", ClientSecret: "pi_test_1_secret"}, nil
}

func newService(t *testing.T, intents IntentCreator) (*Service, *repository.Store) {
	store := repository.NewStore(testdb.New(t))
	return NewService(store, zap.NewNop(), intents, nil), store
}

func money(s string) decimal.Decimal { return testdb.Money(s) }

func createSentInvoice(t *testing.T, svc *Service, owner uuid.UUID, linked *uuid.UUID) *models.Invoice {
	t.Helper()
	ctx := context.Background()
	inv, err := svc.Create(ctx, owner, CreateInput{
		CustomerName: "Dana Buyer",
		Items: []LineInput{
			{Description: "Jordan 1", Quantity: 1, UnitPrice: money("150.00"), InventoryItemID: linked},
			{Description: "Shoe cleaning", Quantity: 2, UnitPrice: money("50.00")},
		},
	})
	require.NoError(t, err)
	inv, err = svc.TransitionStatus(ctx, owner, inv.ID, models.InvoiceSent)
	require.NoError(t, err)
	return inv
}

func TestCreateComputesTotals(t *testing.T) {
	svc, store := newService(t, nil)
	user := testdb.User(t, store.DB(), models.TierFree)

	inv, err := svc.Create(context.Background(), user.ID, CreateInput{
		CustomerName: "Dana Buyer",
		Tax:          money("20.00"),
		Shipping:     money("10.00"),
		Discount:     money("30.00"),
		Items: []LineInput{
			{Description: "Jordan 1", Quantity: 1, UnitPrice: money("150.00")},
			{Description: "Socks", Quantity: 2, UnitPrice: money("50.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceDraft, inv.Status)
	assert.True(t, inv.Subtotal.Equal(money("250.00")))
	assert.True(t, inv.Total.Equal(money("250.00")))

	got, err := svc.Get(context.Background(), user.ID, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[1].LineTotal.Equal(money("100.00")))
}

func TestCreateRejectsForeignItem(t *testing.T) {
	svc, store := newService(t, nil)
	owner := testdb.User(t, store.DB(), models.TierFree)
	other := testdb.User(t, store.DB(), models.TierFree)
	item := testdb.Item(t, store.DB(), other.ID, models.ItemInStock, "")

	_, err := svc.Create(context.Background(), owner.ID, CreateInput{
		CustomerName: "Dana Buyer",
		Items:        []LineInput{{Description: "x", Quantity: 1, UnitPrice: money("1.00"), InventoryItemID: &item.ID}},
	})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Create(context.Background(), owner.ID, CreateInput{CustomerName: "Dana Buyer"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPaidCascade(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	user := testdb.User(t, store.DB(), models.TierFree)
	item := testdb.Item(t, store.DB(), user.ID, models.ItemListed, "90.00")

	inv := createSentInvoice(t, svc, user.ID, &item.ID)

	paid, err := svc.TransitionStatus(ctx, user.ID, inv.ID, models.InvoicePaid)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)

	txs, total, err := store.Transactions.List(ctx, user.ID, repository.Page{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	byGross := map[string]models.Transaction{}
	for _, txn := range txs {
		byGross[txn.GrossAmount.StringFixed(2)] = txn
		assert.Equal(t, models.MethodOther, txn.Method)
		assert.Equal(t, models.TxCompleted, txn.Status)
		assert.True(t, txn.FeeAmount.IsZero())
		assert.True(t, txn.NetAmount.Equal(txn.GrossAmount))
	}
	linked := byGross["150.00"]
	require.NotNil(t, linked.ItemID)
	assert.Equal(t, item.ID, *linked.ItemID)
	assert.Equal(t, "Invoice #"+inv.ID.String()[:8]+" - Jordan 1", linked.Notes)
	assert.Nil(t, byGross["100.00"].ItemID)

	got, err := store.Items.GetActive(ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemSold, got.Status)
	assert.True(t, got.ActualSellPrice.Decimal.Equal(money("150.00")))

	_, err = svc.TransitionStatus(ctx, user.ID, inv.ID, models.InvoiceCancelled)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = svc.TransitionStatus(ctx, user.ID, inv.ID, models.InvoicePaid)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, total, err = store.Transactions.List(ctx, user.ID, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestPaidCascadeSkipsItemsPastSold(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	user := testdb.User(t, store.DB(), models.TierFree)
	item := testdb.Item(t, store.DB(), user.ID, models.ItemShipped, "")

	inv := createSentInvoice(t, svc, user.ID, &item.ID)
	_, err := svc.TransitionStatus(ctx, user.ID, inv.ID, models.InvoicePaid)
	require.NoError(t, err)

	got, err := store.Items.GetActive(ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemShipped, got.Status)
}

func TestDraftCannotBePaid(t *testing.T) {
	svc, store := newService(t, nil)
	user := testdb.User(t, store.DB(), models.TierFree)

	inv, err := svc.Create(context.Background(), user.ID, CreateInput{
		CustomerName: "Dana Buyer",
		Items:        []LineInput{{Description: "x", Quantity: 1, UnitPrice: money("1.00")}},
	})
	require.NoError(t, err)

	_, err = svc.TransitionStatus(context.Background(), user.ID, inv.ID, models.InvoicePaid)
	var te *apperr.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, []string{models.InvoiceSent}, te.Allowed)

	_, err = svc.TransitionStatus(context.Background(), user.ID, inv.ID, "void")
	assert.ErrorIs(t, err, apperr.ErrInvalidStatus)
}

func TestMarkPaidFromIntent(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	user := testdb.User(t, store.DB(), models.TierPro)
	item := testdb.Item(t, store.DB(), user.ID, models.ItemInStock, "")
	inv := createSentInvoice(t, svc, user.ID, &item.ID)

	paid, err := svc.MarkPaidFromIntent(ctx, inv.ID, "pi_42")
	require.NoError(t, err)
	assert.True(t, paid)

	got, err := svc.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, got.Status)
	require.NotNil(t, got.StripePaymentIntentID)
	assert.Equal(t, "pi_42", *got.StripePaymentIntentID)

	txs, _, err := store.Transactions.List(ctx, user.ID, repository.Page{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, txn := range txs {
		assert.Equal(t, models.MethodStripe, txn.Method)
	}

	paid, err = svc.MarkPaidFromIntent(ctx, inv.ID, "pi_42")
	require.NoError(t, err)
	assert.False(t, paid)

	paid, err = svc.MarkPaidFromIntent(ctx, uuid.New(), "pi_43")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestMarkPaidFromIntentOnDraftIsNoop(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	user := testdb.User(t, store.DB(), models.TierPro)
	inv, err := svc.Create(ctx, user.ID, CreateInput{
		CustomerName: "Dana Buyer",
		Items:        []LineInput{{Description: "x", Quantity: 1, UnitPrice: money("1.00")}},
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaidFromIntent(ctx, inv.ID, "pi_1")
	require.NoError(t, err)
	assert.False(t, paid)

	got, err := svc.Get(ctx, user.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceDraft, got.Status)
	assert.Nil(t, got.StripePaymentIntentID)
}

func TestCreatePaymentIntent(t *testing.T) {
	intents := &fakeIntents{enabled: true}
	svc, store := newService(t, intents)
	ctx := context.Background()
	pro := testdb.User(t, store.DB(), models.TierPro)
	free := testdb.User(t, store.DB(), models.TierFree)

	inv := createSentInvoice(t, svc, pro.ID, nil)
	intent, err := svc.CreatePaymentIntent(ctx, pro.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", intent.ID)
	assert.Equal(t, int64(25000), intents.amount)
	assert.Equal(t, inv.ID.String(), intents.metadata["invoice_id"])

	got, err := svc.Get(ctx, pro.ID, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StripePaymentIntentID)
	assert.Equal(t, "pi_test_1", *got.StripePaymentIntentID)

	freeInv := createSentInvoice(t, svc, free.ID, nil)
	_, err = svc.CreatePaymentIntent(ctx, free.ID, freeInv.ID)
	assert.ErrorIs(t, err, apperr.ErrProRequired)

	_, err = svc.TransitionStatus(ctx, pro.ID, inv.ID, models.InvoiceCancelled)
	require.NoError(t, err)
	_, err = svc.CreatePaymentIntent(ctx, pro.ID, inv.ID)
	assert.ErrorIs(t, err, apperr.ErrInvoiceNotPayable)
}

func TestCreatePaymentIntentUnavailable(t *testing.T) {
	svc, store := newService(t, &fakeIntents{enabled: false})
	user := testdb.User(t, store.DB(), models.TierPro)

	_, err := svc.CreatePaymentIntent(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrPaymentsUnavailable)
}
