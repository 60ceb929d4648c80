package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"reseller-ledger-backend/internal/apperr"
	"reseller-ledger-backend/internal/models"
	"reseller-ledger-backend/internal/repository"
)

// Service applies Stripe subscription lifecycle events to users.
type Service struct {
	store    *repository.Store
	logger   *zap.Logger
	proPrice decimal.Decimal
}

func NewService(store *repository.Store, logger *zap.Logger, proPrice decimal.Decimal) *Service {
	return &Service{store: store, logger: logger, proPrice: proPrice}
}

// object is the subset of Stripe subscription and invoice objects we read.
type object struct {
	ID               string            `json:"id"`
	Subscription     string            `json:"subscription"`
	CurrentPeriodEnd int64             `json:"current_period_end"`
	Metadata         map[string]string `json:"metadata"`
}

func decode(raw json.RawMessage) (*object, error) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode subscription object: %w", err)
	}
	return &o, nil
}

// resolveUser finds the owner from metadata.user_id, falling back to a
// subscription already stored under stripeID.
func resolveUser(ctx context.Context, tx *repository.Store, o *object, stripeID string) (uuid.UUID, bool, error) {
	if id, err := uuid.Parse(o.Metadata["user_id"]); err == nil {
		return id, true, nil
	}
	sub, err := tx.Subscriptions.GetByStripeID(ctx, stripeID)
	if apperr.IsNotFound(err) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return sub.UserID, true, nil
}

// Activate handles customer.subscription.created: the subscription becomes
// active at the pro price and the user moves to the pro tier.
func (s *Service) Activate(ctx context.Context, raw json.RawMessage) error {
	o, err := decode(raw)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		userID, ok, err := resolveUser(ctx, tx, o, o.ID)
		if err != nil || !ok {
			return err
		}
		sub := &models.Subscription{
			ID:                   uuid.New(),
			UserID:               userID,
			StripeSubscriptionID: o.ID,
			Tier:                 models.TierPro,
			PriceMonthly:         s.proPrice,
			Status:               models.SubscriptionActive,
		}
		if o.CurrentPeriodEnd > 0 {
			end := time.Unix(o.CurrentPeriodEnd, 0).UTC()
			sub.CurrentPeriodEnd = &end
		}
		if err := tx.Subscriptions.Upsert(ctx, sub); err != nil {
			return err
		}
		s.logger.Info("subscription activated",
			zap.String("user_id", userID.String()),
			zap.String("stripe_subscription_id", o.ID))
		return tx.Users.SetTier(ctx, userID, models.TierPro)
	})
}

// Cancel handles customer.subscription.deleted: the subscription is
// cancelled and the user drops back to free.
func (s *Service) Cancel(ctx context.Context, raw json.RawMessage) error {
	o, err := decode(raw)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		userID, ok, err := resolveUser(ctx, tx, o, o.ID)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.Subscriptions.SetStatus(ctx, o.ID, models.SubscriptionCancelled); err != nil {
			return err
		}
		s.logger.Info("subscription cancelled",
			zap.String("user_id", userID.String()),
			zap.String("stripe_subscription_id", o.ID))
		return tx.Users.SetTier(ctx, userID, models.TierFree)
	})
}

// MarkPastDue handles invoice.payment_failed. The event object is a Stripe
// invoice; its subscription field names the subscription.
func (s *Service) MarkPastDue(ctx context.Context, raw json.RawMessage) error {
	o, err := decode(raw)
	if err != nil {
		return err
	}
	stripeID := o.Subscription
	if stripeID == "" {
		stripeID = o.ID
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Subscriptions.SetStatus(ctx, stripeID, models.SubscriptionPastDue)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Warn("subscription payment failed",
				zap.String("stripe_subscription_id", stripeID))
		}
		return nil
	})
}
