package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	BusinessName     string    `gorm:"size:255" json:"business_name"`
	SubscriptionTier string    `gorm:"size:20;not null;default:free" json:"subscription_tier"`
	IsPartner        bool      `gorm:"not null;default:false" json:"is_partner"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	SubscriptionActive    = "active"
	SubscriptionPastDue   = "past_due"
	SubscriptionCancelled = "cancelled"
)

type Subscription struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	StripeSubscriptionID string          `gorm:"size:255;uniqueIndex;not null" json:"stripe_subscription_id"`
	Tier                 string          `gorm:"size:20;not null" json:"tier"`
	PriceMonthly         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_monthly"`
	Status               string          `gorm:"size:20;not null" json:"status"`
	CurrentPeriodEnd     *time.Time      `json:"current_period_end"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
