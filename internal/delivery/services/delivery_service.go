package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fulfillment/internal/apperr"
	"fulfillment/internal/delivery/domain"
	"fulfillment/internal/delivery/optimizer"
	"fulfillment/internal/delivery/repository"
)

// recomputeRetries bounds optimistic-concurrency retries on route
// completion. Conflicts only happen when another stop of the same route
// finished concurrently, so a couple of reloads is plenty.
const recomputeRetries = 3

type CreateStopInput struct {
	OrderID uint64
	Address string
}

type CreateRouteInput struct {
	DriverID  string
	RouteDate time.Time
	Stops     []CreateStopInput
}

type DeliveryService struct {
	repo      repository.RouteRepository
	optimizer optimizer.RouteOptimizer
	logger    zerolog.Logger
}

func NewDeliveryService(r repository.RouteRepository, opt optimizer.RouteOptimizer, logger zerolog.Logger) *DeliveryService {
	return &DeliveryService{repo: r, optimizer: opt, logger: logger}
}

// CreateRoute plans a route. The optimizer is advisory: a failed call
// keeps the caller's stop order, but a malformed permutation is never
// accepted.
func (s *DeliveryService) CreateRoute(ctx context.Context, in CreateRouteInput) (*domain.DeliveryRoute, error) {
	if in.DriverID == "" {
		return nil, apperr.Validation("driverId is required")
	}
	if len(in.Stops) == 0 {
		return nil, apperr.Validation("route must contain at least one stop")
	}

	order := s.visitingOrder(ctx, in.Stops)

	stops := make([]domain.RouteStop, len(in.Stops))
	for seq, idx := range order {
		stops[seq] = domain.RouteStop{
			OrderID:         in.Stops[idx].OrderID,
			Address:         in.Stops[idx].Address,
			PlannedSequence: seq + 1,
			Status:          domain.StopPending,
		}
	}

	route := &domain.DeliveryRoute{
		RouteNumber: domain.NewRouteNumber(),
		DriverID:    in.DriverID,
		RouteDate:   in.RouteDate,
		Status:      domain.RoutePlanned,
		Stops:       stops,
	}

	if err := s.repo.Create(ctx, route); err != nil {
		return nil, apperr.Transaction(err, "failed to create route")
	}

	s.logger.Info().
		Str("route_number", route.RouteNumber).
		Int("stops", len(stops)).
		Msg("route planned")
	return route, nil
}

func (s *DeliveryService) visitingOrder(ctx context.Context, stops []CreateStopInput) []int {
	identity := make([]int, len(stops))
	for i := range identity {
		identity[i] = i
	}
	if s.optimizer == nil {
		return identity
	}

	addresses := make([]string, len(stops))
	for i, stop := range stops {
		addresses[i] = stop.Address
	}

	order, err := s.optimizer.Optimize(ctx, addresses)
	if err != nil {
		s.logger.Warn().Err(err).Msg("optimizer unavailable, keeping input order")
		return identity
	}
	if err := optimizer.ValidatePermutation(order, len(stops)); err != nil {
		s.logger.Warn().Err(err).Msg("optimizer returned invalid permutation, keeping input order")
		return identity
	}
	return order
}

func (s *DeliveryService) GetRoute(ctx context.Context, id uint64) (*domain.DeliveryRoute, error) {
	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load route %d", id)
	}
	if route == nil {
		return nil, apperr.NotFound("route %d not found", id)
	}
	return route, nil
}

func (s *DeliveryService) ListRoutes(ctx context.Context, status domain.RouteStatus) ([]domain.DeliveryRoute, error) {
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list routes")
	}
	return out, nil
}

func (s *DeliveryService) StartRoute(ctx context.Context, id uint64) (*domain.DeliveryRoute, error) {
	return s.transitionRoute(ctx, id, domain.RouteInProgress)
}

func (s *DeliveryService) CancelRoute(ctx context.Context, id uint64) (*domain.DeliveryRoute, error) {
	return s.transitionRoute(ctx, id, domain.RouteCancelled)
}

// transitionRoute writes through the same version guard as the
// completion recompute. A conflict means another writer committed
// between the read and the write, so the transition reruns against the
// fresh status instead of clobbering it.
func (s *DeliveryService) transitionRoute(ctx context.Context, id uint64, next domain.RouteStatus) (*domain.DeliveryRoute, error) {
	for attempt := 0; attempt < recomputeRetries; attempt++ {
		route, err := s.GetRoute(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := route.Transition(next); err != nil {
			return nil, err
		}
		ok, err := s.repo.UpdateStatusVersioned(ctx, id, next, route.Version)
		if err != nil {
			return nil, apperr.Transaction(err, "failed to update route %d", id)
		}
		if ok {
			route.Version++
			return route, nil
		}
	}
	return nil, apperr.Transaction(nil, "route %d transition kept conflicting", id)
}

// UpdateStopStatus advances one stop; a terminal outcome triggers the
// route-status recompute.
func (s *DeliveryService) UpdateStopStatus(ctx context.Context, stopID uint64, next domain.StopStatus, failureReason string) (*domain.RouteStop, error) {
	stop, err := s.repo.FindStop(ctx, stopID)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load stop %d", stopID)
	}
	if stop == nil {
		return nil, apperr.NotFound("stop %d not found", stopID)
	}

	route, err := s.GetRoute(ctx, stop.RouteID)
	if err != nil {
		return nil, err
	}
	if route.Status != domain.RouteInProgress {
		return nil, apperr.Validation("route %s is %s; stops can only progress on an in-progress route",
			route.RouteNumber, route.Status)
	}

	if err := stop.Advance(next, failureReason); err != nil {
		return nil, err
	}
	if err := s.repo.SaveStop(ctx, stop); err != nil {
		return nil, apperr.Transaction(err, "failed to update stop %d", stopID)
	}

	if next.IsTerminal() {
		if err := s.recomputeRouteStatus(ctx, stop.RouteID); err != nil {
			return nil, err
		}
	}
	return stop, nil
}

// recomputeRouteStatus derives COMPLETED once every stop is terminal.
// Reading all stops then writing the route is not atomic, so the write
// carries the version observed by the read; on conflict the whole
// derivation reruns. Re-entrant calls on a completed route are no-ops.
func (s *DeliveryService) recomputeRouteStatus(ctx context.Context, routeID uint64) error {
	for attempt := 0; attempt < recomputeRetries; attempt++ {
		route, err := s.GetRoute(ctx, routeID)
		if err != nil {
			return err
		}
		if route.Status.IsTerminal() {
			return nil
		}
		if !route.AllStopsTerminal() {
			return nil
		}
		if !route.Status.CanTransitionTo(domain.RouteCompleted) {
			return nil
		}

		ok, err := s.repo.UpdateStatusVersioned(ctx, routeID, domain.RouteCompleted, route.Version)
		if err != nil {
			return apperr.Transaction(err, "failed to complete route %d", routeID)
		}
		if ok {
			s.logger.Info().Uint64("route_id", routeID).Msg("route completed")
			return nil
		}
	}
	return apperr.Transaction(nil, "route %d recompute kept conflicting", routeID)
}

// RescheduleStop appends a replacement for a failed stop. The failed
// stop itself is left untouched as the audit trail.
func (s *DeliveryService) RescheduleStop(ctx context.Context, stopID uint64) (*domain.RouteStop, error) {
	stop, err := s.repo.FindStop(ctx, stopID)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load stop %d", stopID)
	}
	if stop == nil {
		return nil, apperr.NotFound("stop %d not found", stopID)
	}
	if stop.Status != domain.StopFailed {
		return nil, apperr.Validation("only failed stops can be rescheduled, stop %d is %s", stopID, stop.Status)
	}

	route, err := s.GetRoute(ctx, stop.RouteID)
	if err != nil {
		return nil, err
	}
	if route.Status.IsTerminal() {
		return nil, apperr.Validation("route %s is %s; reschedule onto a new route", route.RouteNumber, route.Status)
	}

	maxSeq := 0
	for _, existing := range route.Stops {
		if existing.PlannedSequence > maxSeq {
			maxSeq = existing.PlannedSequence
		}
	}

	replacement := &domain.RouteStop{
		RouteID:           route.ID,
		OrderID:           stop.OrderID,
		Address:           stop.Address,
		PlannedSequence:   maxSeq + 1,
		Status:            domain.StopPending,
		RescheduledFromID: &stop.ID,
	}
	if err := s.repo.AppendStop(ctx, replacement); err != nil {
		return nil, apperr.Transaction(err, "failed to reschedule stop %d", stopID)
	}

	s.logger.Info().
		Uint64("failed_stop", stop.ID).
		Uint64("replacement", replacement.ID).
		Msg("stop rescheduled")
	return replacement, nil
}
