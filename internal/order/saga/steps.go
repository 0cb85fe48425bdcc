package saga

import (
	"context"

	"fulfillment/internal/apperr"
	"fulfillment/internal/inventory"
	"fulfillment/internal/order/domain"
	"fulfillment/internal/order/repository"
)

// persistOrderStep commits the order locally before any remote mutation.
type persistOrderStep struct {
	repo  repository.OrderRepository
	order *domain.Order
}

func NewPersistOrderStep(repo repository.OrderRepository, order *domain.Order) Step {
	return &persistOrderStep{repo: repo, order: order}
}

func (s *persistOrderStep) Name() string { return "persist-order" }

func (s *persistOrderStep) Execute(ctx context.Context) error {
	if err := s.repo.Create(ctx, s.order); err != nil {
		return apperr.Transaction(err, "failed to persist order %s", s.order.OrderNumber)
	}
	return nil
}

// Compensate marks the order CANCELLED rather than deleting it: a failed
// saga must not leave a dangling PENDING row, and terminal orders are
// kept for audit.
func (s *persistOrderStep) Compensate(ctx context.Context) error {
	if err := s.order.Transition(domain.StatusCancelled); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, s.order.ID, domain.StatusCancelled)
}

// reserveItemStep decrements one item's stock. One step per item keeps
// compensation ordering exact: the orchestrator releases them in reverse.
type reserveItemStep struct {
	gateway    inventory.Gateway
	productID  uint64
	quantity   int64
	reserveKey string
	releaseKey string
}

func NewReserveItemStep(gateway inventory.Gateway, productID uint64, quantity int64, reserveKey, releaseKey string) Step {
	return &reserveItemStep{
		gateway:    gateway,
		productID:  productID,
		quantity:   quantity,
		reserveKey: reserveKey,
		releaseKey: releaseKey,
	}
}

func (s *reserveItemStep) Name() string { return "reserve-stock" }

func (s *reserveItemStep) Execute(ctx context.Context) error {
	_, err := s.gateway.AdjustStock(ctx, s.productID, -s.quantity, s.reserveKey)
	return err
}

func (s *reserveItemStep) Compensate(ctx context.Context) error {
	// The release key is fixed at saga construction so a retried
	// compensation never double-increments.
	_, err := s.gateway.AdjustStock(ctx, s.productID, s.quantity, s.releaseKey)
	return err
}

// confirmOrderStep is the saga's final transition.
type confirmOrderStep struct {
	repo  repository.OrderRepository
	order *domain.Order
}

func NewConfirmOrderStep(repo repository.OrderRepository, order *domain.Order) Step {
	return &confirmOrderStep{repo: repo, order: order}
}

func (s *confirmOrderStep) Name() string { return "confirm-order" }

func (s *confirmOrderStep) Execute(ctx context.Context) error {
	if err := s.order.Transition(domain.StatusConfirmed); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, s.order.ID, domain.StatusConfirmed); err != nil {
		return apperr.Transaction(err, "failed to confirm order %s", s.order.OrderNumber)
	}
	return nil
}

func (s *confirmOrderStep) Compensate(ctx context.Context) error { return nil }
