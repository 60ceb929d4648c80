package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/cache"
	"reseller-ledger-backend/internal/services/ledger"
)

// Summary is the owner dashboard. Revenue figures are net of refunds.
type Summary struct {
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	RevenueWeek     decimal.Decimal `json:"revenue_week"`
	RevenueMonth    decimal.Decimal `json:"revenue_month"`
	RevenueAllTime  decimal.Decimal `json:"revenue_all_time"`
	NetProfitToday  decimal.Decimal `json:"net_profit_today"`
	NetProfitWeek   decimal.Decimal `json:"net_profit_week"`
	NetProfitMonth  decimal.Decimal `json:"net_profit_month"`
	NetProfitAll    decimal.Decimal `json:"net_profit_all_time"`
	RefundsAllTime  decimal.Decimal `json:"refunds_all_time"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	ExpectedValue   decimal.Decimal `json:"expected_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	ledger.ItemCounts
	ledger.TxCounts
	GeneratedAt time.Time `json:"generated_at"`
}

type Aggregator struct {
	db     *sqlx.DB
	cache  cache.Cache
	ttl    time.Duration
	clock  func() time.Time
	logger *zap.Logger
}

type Option func(*Aggregator)

// WithClock replaces time.Now for window boundaries.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) { a.clock = clock }
}

// WithCache caches summaries per owner for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(a *Aggregator) {
		a.cache = c
		a.ttl = ttl
	}
}

func NewAggregator(db *sqlx.DB, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		db:     db,
		cache:  cache.Nop{},
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewDB wraps the GORM connection pool for read-side queries.
func NewDB(gdb *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	driver := gdb.Dialector.Name()
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	return sqlx.NewDb(sqlDB, driver), nil
}

func cacheKey(owner uuid.UUID) string {
	return "dashboard:summary:" + owner.String()
}

// Windows returns the UTC start of today, this week (Monday) and this month.
func Windows(now time.Time) (today, week, month time.Time) {
	now = now.UTC()
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(today.Weekday()) + 6) % 7
	week = today.AddDate(0, 0, -offset)
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return today, week, month
}

func (a *Aggregator) Summary(ctx context.Context, owner uuid.UUID) (*Summary, error) {
	var cached Summary
	hit, err := a.cache.Get(ctx, cacheKey(owner), &cached)
	if err != nil {
		a.logger.Warn("dashboard cache read failed", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	txs, err := a.loadTransactions(ctx, owner)
	if err != nil {
		return nil, err
	}
	items, err := a.loadItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	s := Build(txs, items, a.clock())
	if err := a.cache.Set(ctx, cacheKey(owner), s, a.ttl); err != nil {
		a.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return s, nil
}

// Invalidate drops the cached summary after a ledger write.
func (a *Aggregator) Invalidate(ctx context.Context, owner uuid.UUID) {
	if err := a.cache.Delete(ctx, cacheKey(owner)); err != nil {
		a.logger.Warn("dashboard cache invalidation failed",
			zap.String("user_id", owner.String()),
			zap.Error(err))
	}
}

// Build computes a summary from loaded rows.
func Build(txs []ledger.TxRow, items []ledger.ItemRow, now time.Time) *Summary {
	today, week, month := Windows(now)
	revenue := func(since *time.Time) decimal.Decimal {
		return ledger.Revenue(txs, since).Sub(ledger.RefundTotal(txs, since))
	}
	value := ledger.ValueInventory(items)

	return &Summary{
		RevenueToday:    revenue(&today),
		RevenueWeek:     revenue(&week),
		RevenueMonth:    revenue(&month),
		RevenueAllTime:  revenue(nil),
		NetProfitToday:  ledger.NetProfit(txs, items, &today),
		NetProfitWeek:   ledger.NetProfit(txs, items, &week),
		NetProfitMonth:  ledger.NetProfit(txs, items, &month),
		NetProfitAll:    ledger.NetProfit(txs, items, nil),
		RefundsAllTime:  ledger.RefundTotal(txs, nil),
		InventoryValue:  value.CostValue,
		ExpectedValue:   value.ExpectedValue,
		PotentialProfit: value.PotentialProfit,
		ItemCounts:      ledger.CountItems(items),
		TxCounts:        ledger.CountTransactions(txs),
		GeneratedAt:     now.UTC(),
	}
}

const (
	transactionsQuery = `SELECT gross_amount, net_amount, status, is_refund, created_at
		FROM transactions WHERE user_id = ?`
	itemsQuery = `SELECT buy_price, expected_sell_price, status, updated_at
		FROM inventory_items WHERE user_id = ? AND deleted_at IS NULL`
)

func (a *Aggregator) loadTransactions(ctx context.Context, owner uuid.UUID) ([]ledger.TxRow, error) {
	var rows []ledger.TxRow
	if err := a.db.SelectContext(ctx, &rows, a.db.Rebind(transactionsQuery), owner.String()); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return rows, nil
}

func (a *Aggregator) loadItems(ctx context.Context, owner uuid.UUID) ([]ledger.ItemRow, error) {
	var rows []ledger.ItemRow
	if err := a.db.SelectContext(ctx, &rows, a.db.Rebind(itemsQuery), owner.String()); err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	return rows, nil
}
