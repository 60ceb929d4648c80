package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reseller-ledger-backend/internal/models"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByStripeID(ctx context.Context, stripeID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).First(&sub, "stripe_subscription_id = ?", stripeID).Error
	if err != nil {
		return nil, notFound(err, "subscription")
	}
	return &sub, nil
}

// Upsert inserts sub or, when the Stripe id is already known, refreshes its
// tier, price, status and period end.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "tier", "price_monthly", "status", "current_period_end", "updated_at"}),
	}).Create(sub).Error
}

func (r *SubscriptionRepository) SetStatus(ctx context.Context, stripeID, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeID).
		Update("status", status)
	return res.RowsAffected, res.Error
}
