package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
	"reseller-ledger-backend/internal/services/ledger"
)

type Service struct {
	store         *repository.Store
	logger        *zap.Logger
	freeItemLimit int
	invalidator   ledger.Invalidator
}

func NewService(store *repository.Store, logger *zap.Logger, freeItemLimit int, inv ledger.Invalidator) *Service {
	return &Service{
		store:         store,
		logger:        logger,
		freeItemLimit: freeItemLimit,
		invalidator:   ledger.OrNop(inv),
	}
}

// Attributes are the descriptive and price fields of an item. Nil pointers
// are left unchanged on update.
type Attributes struct {
	Name              *string             `json:"name" binding:"omitempty,max=255"`
	Category          *string             `json:"category" binding:"omitempty,max=100"`
	SKU               *string             `json:"sku" binding:"omitempty,max=100"`
	UPC               *string             `json:"upc" binding:"omitempty,max=50"`
	Size              *string             `json:"size" binding:"omitempty,max=50"`
	Color             *string             `json:"color" binding:"omitempty,max=50"`
	Condition         *string             `json:"condition" binding:"omitempty,max=50"`
	SerialNumber      *string             `json:"serial_number" binding:"omitempty,max=100"`
	Platform          *string             `json:"platform" binding:"omitempty,max=100"`
	CustomAttributes  datatypes.JSON      `json:"custom_attributes"`
	BuyPrice          decimal.NullDecimal `json:"buy_price" binding:"omitempty,money"`
	ExpectedSellPrice decimal.NullDecimal `json:"expected_sell_price" binding:"omitempty,money"`
	ActualSellPrice   decimal.NullDecimal `json:"actual_sell_price" binding:"omitempty,money"`
}

func (a Attributes) validate() error {
	for _, p := range []decimal.NullDecimal{a.BuyPrice, a.ExpectedSellPrice, a.ActualSellPrice} {
		if p.Valid && !ledger.ValidAmount(p.Decimal) {
			return apperr.ErrInvalidAmount
		}
	}
	return nil
}

func (a Attributes) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	set("name", a.Name)
	set("category", a.Category)
	set("sku", a.SKU)
	set("upc", a.UPC)
	set("size", a.Size)
	set("color", a.Color)
	set("condition", a.Condition)
	set("serial_number", a.SerialNumber)
	set("platform", a.Platform)
	if a.CustomAttributes != nil {
		cols["custom_attributes"] = a.CustomAttributes
	}
	if a.BuyPrice.Valid {
		cols["buy_price"] = a.BuyPrice.Decimal
	}
	if a.ExpectedSellPrice.Valid {
		cols["expected_sell_price"] = a.ExpectedSellPrice.Decimal
	}
	if a.ActualSellPrice.Valid {
		cols["actual_sell_price"] = a.ActualSellPrice.Decimal
	}
	return cols
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create adds an item in stock. Free-tier owners are capped at the
// configured number of active items.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, attrs Attributes) (*models.InventoryItem, error) {
	if deref(attrs.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		UserID:            owner,
		Name:              deref(attrs.Name),
		Category:          deref(attrs.Category),
		SKU:               deref(attrs.SKU),
		UPC:               deref(attrs.UPC),
		Size:              deref(attrs.Size),
		Color:             deref(attrs.Color),
		Condition:         deref(attrs.Condition),
		SerialNumber:      deref(attrs.SerialNumber),
		Platform:          deref(attrs.Platform),
		CustomAttributes:  attrs.CustomAttributes,
		BuyPrice:          attrs.BuyPrice,
		ExpectedSellPrice: attrs.ExpectedSellPrice,
		ActualSellPrice:   attrs.ActualSellPrice,
		Status:            models.ItemInStock,
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetByID(ctx, owner)
		if err != nil {
			return err
		}
		if user.SubscriptionTier == models.TierFree && s.freeItemLimit > 0 {
			n, err := tx.Items.CountActive(ctx, owner)
			if err != nil {
				return err
			}
			if n >= int64(s.freeItemLimit) {
				return fmt.Errorf("free tier allows %d items: %w", s.freeItemLimit, apperr.ErrTierLimit)
			}
		}
		return tx.Items.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, owner)
	return item, nil
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	return s.store.Items.GetActive(ctx, owner, id)
}

func (s *Service) List(ctx context.Context, owner uuid.UUID, f repository.ItemFilter, p repository.Page) ([]models.InventoryItem, int64, error) {
	return s.store.Items.List(ctx, owner, f, p)
}

// Update changes descriptive and price fields. Status only moves through
// TransitionStatus.
func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, attrs Attributes) (*models.InventoryItem, error) {
	if attrs.Name != nil && *attrs.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", apperr.ErrInvalidInput)
	}
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	var item *models.InventoryItem
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if item, err = tx.Items.GetActive(ctx, owner, id); err != nil {
			return err
		}
		if err := tx.Items.Update(ctx, item, attrs.columns()); err != nil {
			return err
		}
		item, err = tx.Items.GetActive(ctx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, owner)
	return item, nil
}

// Delete soft-deletes an item. Its ledger history is kept.
func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		item, err := tx.Items.GetActive(ctx, owner, id)
		if err != nil {
			return err
		}
		return tx.Items.SoftDelete(ctx, item)
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, owner)
	return nil
}

// TransitionStatus moves an owned item along the inventory state machine.
func (s *Service) TransitionStatus(ctx context.Context, owner, id uuid.UUID, target string) (*models.InventoryItem, error) {
	var item *models.InventoryItem
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if item, err = tx.Items.GetActive(ctx, owner, id); err != nil {
			return err
		}
		return Transition(ctx, tx, item, target, nil, owner.String(), "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory status changed",
		zap.String("item_id", id.String()),
		zap.String("status", item.Status))
	s.invalidator.Invalidate(ctx, owner)
	return item, nil
}

// History returns the recorded status changes of an item.
func (s *Service) History(ctx context.Context, owner, id uuid.UUID) ([]models.StatusAuditLog, error) {
	if _, err := s.store.Items.GetActive(ctx, owner, id); err != nil {
		return nil, err
	}
	return s.store.Audit.ForEntity(ctx, owner, models.EntityInventoryItem, id)
}
