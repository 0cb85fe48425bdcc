package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fulfillment/internal/apperr"
)

type DeliveryType string

const (
	DeliveryStandard  DeliveryType = "STANDARD"
	DeliveryExpress   DeliveryType = "EXPRESS"
	DeliveryOvernight DeliveryType = "OVERNIGHT"
	DeliverySameDay   DeliveryType = "SAME_DAY"
	DeliveryPickup    DeliveryType = "PICKUP"
)

var shippingRates = map[DeliveryType]string{
	DeliveryStandard:  "5.99",
	DeliveryExpress:   "12.99",
	DeliveryOvernight: "24.99",
	DeliverySameDay:   "34.99",
	DeliveryPickup:    "0",
}

var deliveryLeadDays = map[DeliveryType]int{
	DeliveryStandard:  5,
	DeliveryExpress:   2,
	DeliveryOvernight: 1,
	DeliverySameDay:   0,
	DeliveryPickup:    1,
}

// ShippingCost returns the flat rate for a delivery type. Unknown types
// fall back to standard shipping.
func ShippingCost(t DeliveryType) decimal.Decimal {
	rate, ok := shippingRates[t]
	if !ok {
		rate = shippingRates[DeliveryStandard]
	}
	return decimal.RequireFromString(rate)
}

func ExpectedDeliveryDate(t DeliveryType, from time.Time) time.Time {
	days, ok := deliveryLeadDays[t]
	if !ok {
		days = deliveryLeadDays[DeliveryStandard]
	}
	return from.AddDate(0, 0, days)
}

// Order is the authoritative record created on saga commit. Terminal
// orders are retained for audit, never deleted.
type Order struct {
	ID                 uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber        string          `json:"orderNumber" gorm:"size:32;uniqueIndex;not null"`
	CustomerID         string          `json:"customerId" gorm:"size:64;not null;index"`
	CustomerEmail      string          `json:"customerEmail" gorm:"size:255"`
	Status             OrderStatus     `json:"status" gorm:"size:32;not null;index"`
	PaymentStatus      PaymentStatus   `json:"paymentStatus" gorm:"size:32;not null"`
	DeliveryType       DeliveryType    `json:"deliveryType" gorm:"size:32;not null"`
	Subtotal           decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Tax                decimal.Decimal `json:"tax" gorm:"type:decimal(12,2);not null"`
	Shipping           decimal.Decimal `json:"shipping" gorm:"type:decimal(12,2);not null"`
	Discount           decimal.Decimal `json:"discount" gorm:"type:decimal(12,2);not null"`
	Total              decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	AmountPaid         decimal.Decimal `json:"amountPaid" gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod      string          `json:"paymentMethod,omitempty" gorm:"size:64"`
	CancellationReason string          `json:"cancellationReason,omitempty" gorm:"size:255"`
	ExpectedDeliveryAt *time.Time      `json:"expectedDeliveryAt,omitempty"`
	Items              []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt          time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt          time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem freezes the unit price at order time; it is never re-read
// from inventory afterwards.
type OrderItem struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID     uint64          `json:"orderId" gorm:"not null;index"`
	ProductID   uint64          `json:"productId" gorm:"not null"`
	ProductName string          `json:"productName" gorm:"size:255"`
	Quantity    int64           `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unitPriceAtOrderTime" gorm:"column:unit_price;type:decimal(12,2);not null"`
}

func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// ComputeTotals recalculates subtotal and total from the items:
// total = Σ(quantity × unitPrice) − discount + tax + shipping.
func (o *Order) ComputeTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.Discount).Add(o.Tax).Add(o.Shipping)
}

// Transition moves the order to next, rejecting anything outside the
// transition table.
func (o *Order) Transition(next OrderStatus) error {
	if !next.Valid() {
		return apperr.Validation("unknown order status %q", next)
	}
	if !o.Status.CanTransitionTo(next) {
		return apperr.Validation("illegal order transition %s -> %s", o.Status, next)
	}
	o.Status = next
	return nil
}

// ApplyPayment accumulates a payment and derives the payment status.
func (o *Order) ApplyPayment(amount decimal.Decimal, method string) error {
	if amount.IsNegative() || amount.IsZero() {
		return apperr.Validation("payment amount must be positive")
	}
	if o.Status == StatusCancelled {
		return apperr.Validation("cannot process payment for cancelled order")
	}
	if o.PaymentStatus == PaymentRefunded {
		return apperr.Validation("order payment already refunded")
	}

	o.AmountPaid = o.AmountPaid.Add(amount)
	o.PaymentMethod = method

	next := PaymentPartial
	if o.AmountPaid.GreaterThanOrEqual(o.Total) {
		next = PaymentPaid
	}
	if o.PaymentStatus == next {
		return nil
	}
	if !o.PaymentStatus.CanTransitionTo(next) {
		return apperr.Validation("illegal payment transition %s -> %s", o.PaymentStatus, next)
	}
	o.PaymentStatus = next
	return nil
}

// Refund is only reachable from PAID on an order that was cancelled or
// returned.
func (o *Order) Refund() error {
	if o.Status != StatusCancelled && o.Status != StatusReturned {
		return apperr.Validation("refund requires a cancelled or returned order")
	}
	if !o.PaymentStatus.CanTransitionTo(PaymentRefunded) {
		return apperr.Validation("illegal payment transition %s -> %s", o.PaymentStatus, PaymentRefunded)
	}
	o.PaymentStatus = PaymentRefunded
	return nil
}
