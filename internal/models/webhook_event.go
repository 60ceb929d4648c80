package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookEvent records a provider event id once it has been handled.
type WebhookEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	EventID   string         `gorm:"size:255;uniqueIndex;not null"`
	EventType string         `gorm:"size:100;not null"`
	Processed bool           `gorm:"not null;default:true"`
	Payload   datatypes.JSON
	CreatedAt time.Time
}
