package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/inventory"
	"reseller-ledger-backend/internal/services/ledger"
)

// Service records sales and refunds and cascades them into inventory.
type Service struct {
	store       *repository.Store
	logger      *zap.Logger
	invalidator ledger.Invalidator
}

func NewService(store *repository.Store, logger *zap.Logger, inv ledger.Invalidator) *Service {
	return &Service{store: store, logger: logger, invalidator: ledger.OrNop(inv)}
}

type SaleInput struct {
	Owner       uuid.UUID
	Method      string
	Gross       decimal.Decimal
	Fee         decimal.Decimal
	ItemID      *uuid.UUID
	ExternalRef string
	Notes       string
}

func validMethod(m string) bool {
	for _, pm := range models.PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// LogTransaction records a completed sale. A linked item that is still in
// stock or listed is marked sold at the gross amount.
func (s *Service) LogTransaction(ctx context.Context, in SaleInput) (*models.Transaction, error) {
	if !validMethod(in.Method) {
		return nil, fmt.Errorf("method %q: %w", in.Method, apperr.ErrInvalidMethod)
	}
	if !ledger.ValidAmount(in.Gross) || !ledger.ValidAmount(in.Fee) {
		return nil, apperr.ErrInvalidAmount
	}
	if in.Fee.GreaterThan(in.Gross) {
		return nil, apperr.ErrFeeExceedsGross
	}

	txn := &models.Transaction{
		ID:                  uuid.New(),
		UserID:              in.Owner,
		ItemID:              in.ItemID,
		Method:              in.Method,
		Status:              models.TxCompleted,
		GrossAmount:         in.Gross,
		FeeAmount:           in.Fee,
		NetAmount:           ledger.Net(in.Gross, in.Fee),
		ExternalReferenceID: in.ExternalRef,
		Notes:               in.Notes,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var item *models.InventoryItem
		if in.ItemID != nil {
			var err error
			if item, err = tx.Items.GetActive(ctx, in.Owner, *in.ItemID); err != nil {
				return err
			}
		}
		if err := tx.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		_, err := inventory.MarkSold(ctx, tx, item, in.Gross, in.Owner.String(), "sale "+txn.ID.String())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction logged",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("method", txn.Method),
		zap.String("net_amount", txn.NetAmount.StringFixed(2)))
	s.invalidator.Invalidate(ctx, in.Owner)
	return txn, nil
}

// Refund reverses a transaction. The refund row, the status flip on the
// original and the inventory revert commit together or not at all.
func (s *Service) Refund(ctx context.Context, owner, id uuid.UUID, reason string) (*models.Transaction, error) {
	var refund *models.Transaction

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		orig, err := tx.Transactions.GetByID(ctx, owner, id)
		if err != nil {
			return err
		}
		if orig.IsRefund {
			return apperr.ErrCannotRefundRefund
		}
		if orig.Status == models.TxRefunded {
			return apperr.ErrAlreadyRefunded
		}

		notes := reason
		if notes == "" {
			notes = "Refund of transaction " + orig.ID.String()
		}
		refund = &models.Transaction{
			ID:                    uuid.New(),
			UserID:                owner,
			ItemID:                orig.ItemID,
			Method:                orig.Method,
			Status:                models.TxCompleted,
			GrossAmount:           orig.GrossAmount,
			FeeAmount:             decimal.Zero,
			NetAmount:             orig.NetAmount.Neg(),
			Notes:                 notes,
			IsRefund:              true,
			OriginalTransactionID: &orig.ID,
		}
		if err := tx.Transactions.Create(ctx, refund); err != nil {
			return err
		}

		if err := tx.Transactions.CompareAndSetStatus(ctx, orig.ID, orig.Status, models.TxRefunded); err != nil {
			if apperr.IsConflict(err) {
				// Lost a race with another refund of the same original.
				return apperr.ErrAlreadyRefunded
			}
			return err
		}
		if err := tx.Audit.Record(ctx, models.EntityTransaction, orig.ID, owner, orig.Status, models.TxRefunded, owner.String(), notes); err != nil {
			return err
		}

		if orig.ItemID == nil {
			return nil
		}
		item, err := tx.Items.GetActive(ctx, owner, *orig.ItemID)
		if apperr.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = inventory.Restock(ctx, tx, item, owner.String(), "refund "+refund.ID.String())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction refunded",
		zap.String("transaction_id", id.String()),
		zap.String("refund_id", refund.ID.String()))
	s.invalidator.Invalidate(ctx, owner)
	return refund, nil
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*models.Transaction, error) {
	return s.store.Transactions.GetByID(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, p repository.Page) ([]models.Transaction, int64, error) {
	return s.store.Transactions.List(ctx, owner, p)
}

// ItemProfit reports profit of an item from its ledger history: sale net,
// less refunds, less buy price.
func (s *Service) ItemProfit(ctx context.Context, owner, itemID uuid.UUID) (decimal.Decimal, error) {
	item, err := s.store.Items.GetActive(ctx, owner, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	txs, err := s.store.Transactions.ListByItem(ctx, owner, itemID)
	if err != nil {
		return decimal.Zero, err
	}

	sell, fee := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.IsRefund {
			sell = sell.Sub(t.GrossAmount)
			continue
		}
		sell = sell.Add(t.GrossAmount)
		fee = fee.Add(t.FeeAmount)
	}
	buy := decimal.Zero
	if item.BuyPrice.Valid {
		buy = item.BuyPrice.Decimal
	}
	return ledger.ItemProfit(sell, buy, fee), nil
}
