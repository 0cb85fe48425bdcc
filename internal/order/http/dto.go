package http

import (
	"github.com/shopspring/decimal"

	"fulfillment/internal/order/domain"
)

type CreateOrderRequest struct {
	CustomerID    string             `json:"customerId" binding:"required"`
	CustomerEmail string             `json:"customerEmail"`
	DeliveryType  string             `json:"deliveryType"`
	Discount      decimal.Decimal    `json:"discount"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type ProcessPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
}
