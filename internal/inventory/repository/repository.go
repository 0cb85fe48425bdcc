package repository

import (
	"context"

	"fulfillment/internal/inventory/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindLowStock(ctx context.Context) ([]domain.Product, error)

	// AdjustStock applies delta atomically. A replay of the same
	// idempotency key returns the recorded movement without touching
	// stock. A delta that would drive stock negative fails with a
	// StockInsufficientError.
	AdjustStock(ctx context.Context, productID uint64, delta int64, idempotencyKey, reason string) (*domain.StockMovement, error)
	Movements(ctx context.Context, productID uint64) ([]domain.StockMovement, error)
}
