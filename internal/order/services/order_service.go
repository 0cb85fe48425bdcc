package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fulfillment/internal/apperr"
	"fulfillment/internal/event"
	"fulfillment/internal/inventory"
	"fulfillment/internal/order/domain"
	"fulfillment/internal/order/repository"
	"fulfillment/internal/order/saga"
)

type CreateOrderItem struct {
	ProductID uint64
	Quantity  int64
}

type CreateOrderInput struct {
	CustomerID    string
	CustomerEmail string
	DeliveryType  domain.DeliveryType
	Discount      decimal.Decimal
	Items         []CreateOrderItem
}

// OrderService owns the order aggregate and coordinates creation across
// the inventory service.
type OrderService struct {
	repo      repository.OrderRepository
	gateway   inventory.Gateway
	publisher event.PublisherInterface
	taxRate   decimal.Decimal
	logger    zerolog.Logger
}

func NewOrderService(r repository.OrderRepository, gw inventory.Gateway, pub event.PublisherInterface, taxRate decimal.Decimal, logger zerolog.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		gateway:   gw,
		publisher: pub,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// CreateOrder runs the fulfillment saga: validate stock (read-only,
// concurrent), commit the order locally, reserve stock sequentially with
// reverse-order compensation, then confirm.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	// Validation phase. Lookups are read-only and commutative, so they
	// fan out; any missing product or short stock fails the whole
	// request before anything is mutated.
	products := make([]*inventory.ProductInfo, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range in.Items {
		g.Go(func() error {
			p, err := s.gateway.GetProduct(gctx, item.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < item.Quantity {
				return apperr.StockInsufficient(
					"insufficient stock for product %s: available %d, requested %d",
					p.Name, p.Stock, item.Quantity)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := s.buildOrder(in, products)

	steps := make([]saga.Step, 0, len(in.Items)+2)
	steps = append(steps, saga.NewPersistOrderStep(s.repo, order))
	for _, item := range in.Items {
		// Keys are fixed here so retries and compensations of the same
		// step never double-apply.
		steps = append(steps, saga.NewReserveItemStep(
			s.gateway, item.ProductID, item.Quantity, uuid.NewString(), uuid.NewString()))
	}
	steps = append(steps, saga.NewConfirmOrderStep(s.repo, order))

	if err := saga.NewOrchestrator(steps, s.logger).Run(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Msg("order confirmed")

	go s.publishOrderEvent(context.Background(), event.OrderConfirmed, order, "", "")

	return order, nil
}

func (s *OrderService) buildOrder(in CreateOrderInput, products []*inventory.ProductInfo) *domain.Order {
	items := make([]domain.OrderItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: products[i].Name,
			Quantity:    item.Quantity,
			UnitPrice:   products[i].Price,
		}
	}

	deliveryType := in.DeliveryType
	if deliveryType == "" {
		deliveryType = domain.DeliveryStandard
	}
	expected := domain.ExpectedDeliveryDate(deliveryType, time.Now())

	order := &domain.Order{
		OrderNumber:        domain.NewOrderNumber(),
		CustomerID:         in.CustomerID,
		CustomerEmail:      in.CustomerEmail,
		Status:             domain.StatusPending,
		PaymentStatus:      domain.PaymentPending,
		DeliveryType:       deliveryType,
		Discount:           in.Discount,
		Shipping:           domain.ShippingCost(deliveryType),
		AmountPaid:         decimal.Zero,
		ExpectedDeliveryAt: &expected,
		Items:              items,
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	order.Tax = subtotal.Mul(s.taxRate).Round(2)
	order.ComputeTotals()
	return order
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load order %d", id)
	}
	if o == nil {
		return nil, apperr.NotFound("order %d not found", id)
	}
	return o, nil
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	o, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load order %s", orderNumber)
	}
	if o == nil {
		return nil, apperr.NotFound("order %s not found", orderNumber)
	}
	return o, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	out, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list orders for %s", customerID)
	}
	return out, nil
}

// UpdateStatus drives the state machine for downstream progress
// (picking, shipping, delivery).
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.Transition(next); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return nil, apperr.Transaction(err, "failed to update order %d", id)
	}

	go s.publishOrderEvent(context.Background(), event.OrderStatusChanged, order, string(oldStatus), "")
	return order, nil
}

// Cancel transitions the order to CANCELLED and releases its stock. The
// releases are ordinary positive adjustments whose idempotency keys are
// derived from the order and product, so a release that failed here can
// be replayed later without double-crediting stock.
func (s *OrderService) Cancel(ctx context.Context, id uint64, reason string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	// Stock is only held once the saga confirmed the order; a PENDING
	// order that reaches this path never decremented anything.
	releaseStock := order.Status != domain.StatusPending

	if err := order.Transition(domain.StatusCancelled); err != nil {
		return nil, err
	}
	order.CancellationReason = reason
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, apperr.Transaction(err, "failed to cancel order %d", id)
	}

	if releaseStock {
		for _, item := range order.Items {
			if _, err := s.gateway.AdjustStock(ctx, item.ProductID, item.Quantity, releaseKey(order.ID, item.ProductID)); err != nil {
				s.logger.Error().Err(err).
					Uint64("product_id", item.ProductID).
					Msg("failed to release stock on cancellation")
			}
		}
	}

	go s.publishOrderEvent(context.Background(), event.OrderCancelled, order, "", reason)
	return order, nil
}

// releaseKey is stable per order and product, mirroring the fixed keys
// the reservation steps carry.
func releaseKey(orderID, productID uint64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("order-%d-release-%d", orderID, productID))).String()
}

func (s *OrderService) ProcessPayment(ctx context.Context, id uint64, amount decimal.Decimal, method string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyPayment(amount, method); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, apperr.Transaction(err, "failed to record payment for order %d", id)
	}
	return order, nil
}

func (s *OrderService) RefundPayment(ctx context.Context, id uint64) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Refund(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, apperr.Transaction(err, "failed to refund order %d", id)
	}
	return order, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, key string, order *domain.Order, oldStatus, reason string) {
	if s.publisher == nil {
		return
	}

	items := make([]event.OrderEventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = event.OrderEventItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}

	evt := event.OrderEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CustomerEmail: order.CustomerEmail,
		Status:        string(order.Status),
		OldStatus:     oldStatus,
		Total:         order.Total.StringFixed(2),
		Reason:        reason,
		Items:         items,
	}

	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", key).Msg("failed to publish order event")
	}
}

func validateInput(in CreateOrderInput) error {
	if in.CustomerID == "" {
		return apperr.Validation("customerId is required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}
	seen := make(map[uint64]bool, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return apperr.Validation("quantity for product %d must be positive", item.ProductID)
		}
		if seen[item.ProductID] {
			return apperr.Validation("duplicate product %d in order", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	if in.Discount.IsNegative() {
		return apperr.Validation("discount cannot be negative")
	}
	return nil
}
