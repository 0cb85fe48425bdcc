package repository

import (
	"context"

	"fulfillment/internal/order/domain"
)

type OrderRepository interface {
	// Create persists the order and its items in one local transaction.
	Create(ctx context.Context, order *domain.Order) error
	Save(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}
