package http

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Stock        int64           `json:"stock"`
	ReorderLevel int64           `json:"reorderLevel"`
}

type AdjustStockRequest struct {
	QuantityDelta  int64  `json:"quantityDelta" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey" binding:"required"`
	Reason         string `json:"reason"`
}
