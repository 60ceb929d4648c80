// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/config"
	"reseller-ledger-backend/internal/models"
)

// New returns a fresh database. A single connection keeps every query on the
// same in-memory database, so code under test must route queries made inside
// a transaction through the transaction handle.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// User inserts a user on the given tier.
func User(t *testing.T, db *gorm.DB, tier string) *models.User {
	t.Helper()
	u := &models.User{
		ID:               uuid.New(),
		Email:            uuid.NewString() + "@example.com",
		BusinessName:     "Test Resale Co",
		SubscriptionTier: tier,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// Item inserts an inventory item for owner in the given status.
func Item(t *testing.T, db *gorm.DB, owner uuid.UUID, status string, buy string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:     uuid.New(),
		UserID: owner,
		Name:   "Jordan 1 Retro High",
		Status: status,
	}
	if buy != "" {
		item.BuyPrice = decimal.NewNullDecimal(decimal.RequireFromString(buy))
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// Money parses a decimal literal.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
