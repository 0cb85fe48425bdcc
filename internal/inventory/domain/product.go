package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	SKU          string          `json:"sku" gorm:"size:64;uniqueIndex"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock        int64           `json:"stock" gorm:"not null"`
	ReorderLevel int64           `json:"reorderLevel" gorm:"not null;default:0"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// StockMovement is the audit record of one stock adjustment. The unique
// idempotency key is what makes replayed adjustments no-ops.
type StockMovement struct {
	ID             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID      uint64    `json:"productId" gorm:"not null;index"`
	QuantityDelta  int64     `json:"quantityDelta" gorm:"not null"`
	StockAfter     int64     `json:"stockAfter" gorm:"not null"`
	IdempotencyKey string    `json:"idempotencyKey" gorm:"size:64;uniqueIndex;not null"`
	Reason         string    `json:"reason" gorm:"size:255"`
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
