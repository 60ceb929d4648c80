package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ItemInStock  = "in_stock"
	ItemListed   = "listed"
	ItemSold     = "sold"
	ItemShipped  = "shipped"
	ItemPaid     = "paid"
	ItemArchived = "archived"
)

type InventoryItem struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID           `gorm:"type:uuid;index;not null" json:"user_id"`
	Name              string              `gorm:"size:255;not null" json:"name"`
	Category          string              `gorm:"size:100" json:"category"`
	SKU               string              `gorm:"column:sku;size:100" json:"sku"`
	UPC               string              `gorm:"column:upc;size:50" json:"upc"`
	Size              string              `gorm:"size:50" json:"size"`
	Color             string              `gorm:"size:50" json:"color"`
	Condition         string              `gorm:"size:50" json:"condition"`
	SerialNumber      string              `gorm:"size:100" json:"serial_number"`
	Platform          string              `gorm:"size:100" json:"platform"`
	CustomAttributes  datatypes.JSON      `json:"custom_attributes"`
	BuyPrice          decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"buy_price"`
	ExpectedSellPrice decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"expected_sell_price"`
	ActualSellPrice   decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"actual_sell_price"`
	Status            string              `gorm:"size:20;index;not null;default:in_stock" json:"status"`
	DeletedAt         *time.Time          `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}
