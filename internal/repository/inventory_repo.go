package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/models"
)

// InventoryRepository only ever sees active rows; soft-deleted items behave
// as missing.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted_at IS NULL")
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = models.ItemInStock
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// GetActive loads an owned, non-deleted item.
func (r *InventoryRepository) GetActive(ctx context.Context, owner, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.active(ctx).Where("id = ? AND user_id = ?", id, owner).First(&item).Error
	if err != nil {
		return nil, notFound(err, "inventory item")
	}
	return &item, nil
}

// FindActive is GetActive without ownership, for cascades where the owner
// is already established by the parent row.
func (r *InventoryRepository) FindActive(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.active(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err, "inventory item")
	}
	return &item, nil
}

func (r *InventoryRepository) CountActive(ctx context.Context, owner uuid.UUID) (int64, error) {
	var n int64
	err := r.active(ctx).Model(&models.InventoryItem{}).Where("user_id = ?", owner).Count(&n).Error
	return n, err
}

type ItemFilter struct {
	Status   string
	Category string
}

func (r *InventoryRepository) List(ctx context.Context, owner uuid.UUID, f ItemFilter, p Page) ([]models.InventoryItem, int64, error) {
	q := r.active(ctx).Model(&models.InventoryItem{}).Where("user_id = ?", owner)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := p.normalize()
	var items []models.InventoryItem
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// ListAll returns every active item of owner, newest first.
func (r *InventoryRepository) ListAll(ctx context.Context, owner uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.active(ctx).Where("user_id = ?", owner).Order("created_at DESC").Find(&items).Error
	return items, err
}

// Update writes the given columns. Status is never written here.
func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem, fields map[string]interface{}) error {
	delete(fields, "status")
	if len(fields) == 0 {
		return nil
	}
	return r.active(ctx).Model(item).Updates(fields).Error
}

func (r *InventoryRepository) SoftDelete(ctx context.Context, item *models.InventoryItem) error {
	return r.active(ctx).Model(item).Update("deleted_at", r.db.NowFunc()).Error
}

// CompareAndSetStatus moves an item from one status to another, along with
// any extra columns, failing with apperr.ErrConflict when the row has moved.
func (r *InventoryRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to string, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	return compareAndSet(r.active(ctx), &models.InventoryItem{}, id, from, updates)
}
