package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reseller-ledger-backend/internal/models"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *models.StatusAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ForEntity returns the status history of one entity, oldest first.
func (r *AuditLogRepository) ForEntity(ctx context.Context, owner uuid.UUID, entityType string, id uuid.UUID) ([]models.StatusAuditLog, error) {
	var entries []models.StatusAuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entity_type = ? AND entity_id = ?", owner, entityType, id).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// Record appends one transition entry.
func (r *AuditLogRepository) Record(ctx context.Context, entityType string, entityID, owner uuid.UUID, from, to, actor, reason string) error {
	return r.Append(ctx, &models.StatusAuditLog{
		EntityType:  entityType,
		EntityID:    entityID,
		UserID:      owner,
		FromStatus:  from,
		ToStatus:    to,
		PerformedBy: actor,
		Reason:      reason,
	})
}
