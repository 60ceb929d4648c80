// Package export writes an owner's inventory and ledger as CSV.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/features"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
)

const Feature = "csv_export"

var (
	inventoryHeader = []string{
		"Name", "Category", "SKU", "UPC", "Size", "Color", "Condition",
		"Buy Price", "Expected Sell Price", "Actual Sell Price",
		"Status", "Platform", "Created At",
	}
	transactionHeader = []string{
		"Date", "Method", "Status", "Gross Amount", "Fee",
		"Net Amount", "Is Refund", "Notes",
	}
)

type Service struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewService(store *repository.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) authorize(user *models.User) error {
	if !features.Enabled(Feature, user.SubscriptionTier, user.IsPartner) {
		return apperr.ErrProRequired
	}
	return nil
}

// Inventory writes every active item of user, newest first.
func (s *Service) Inventory(ctx context.Context, user *models.User, w io.Writer) error {
	if err := s.authorize(user); err != nil {
		return err
	}
	items, err := s.store.Items.ListAll(ctx, user.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return err
	}
	for _, it := range items {
		record := []string{
			it.Name, it.Category, it.SKU, it.UPC, it.Size, it.Color, it.Condition,
			nullMoney(it.BuyPrice), nullMoney(it.ExpectedSellPrice), nullMoney(it.ActualSellPrice),
			it.Status, it.Platform, it.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()

	s.logger.Info("inventory exported",
		zap.String("user_id", user.ID.String()),
		zap.Int("rows", len(items)))
	return cw.Error()
}

// Transactions writes the full ledger of user, newest first.
func (s *Service) Transactions(ctx context.Context, user *models.User, w io.Writer) error {
	if err := s.authorize(user); err != nil {
		return err
	}
	txs, err := s.store.Transactions.ListAll(ctx, user.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return err
	}
	for _, t := range txs {
		refund := "No"
		if t.IsRefund {
			refund = "Yes"
		}
		record := []string{
			t.CreatedAt.UTC().Format(time.RFC3339), t.Method, t.Status,
			t.GrossAmount.StringFixed(2), t.FeeAmount.StringFixed(2), t.NetAmount.StringFixed(2),
			refund, t.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()

	s.logger.Info("transactions exported",
		zap.String("user_id", user.ID.String()),
		zap.Int("rows", len(txs)))
	return cw.Error()
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
