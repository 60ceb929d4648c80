package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/models"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, owner, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&tx).Error
	if err != nil {
		return nil, notFound(err, "transaction")
	}
	return &tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, owner uuid.UUID, p Page) ([]models.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", owner)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := p.normalize()
	var txs []models.Transaction
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error
	return txs, total, err
}

func (r *TransactionRepository) ListAll(ctx context.Context, owner uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", owner).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

// ListByItem returns the ledger entries linked to an inventory item, oldest first.
func (r *TransactionRepository) ListByItem(ctx context.Context, owner, itemID uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", owner, itemID).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	return compareAndSet(r.db.WithContext(ctx), &models.Transaction{}, id, from,
		map[string]interface{}{"status": to})
}
