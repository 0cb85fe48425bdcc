package repository

import (
	"context"

	"fulfillment/internal/delivery/domain"
)

type RouteRepository interface {
	Create(ctx context.Context, route *domain.DeliveryRoute) error
	FindByID(ctx context.Context, id uint64) (*domain.DeliveryRoute, error)
	List(ctx context.Context, status domain.RouteStatus) ([]domain.DeliveryRoute, error)

	FindStop(ctx context.Context, stopID uint64) (*domain.RouteStop, error)
	SaveStop(ctx context.Context, stop *domain.RouteStop) error
	AppendStop(ctx context.Context, stop *domain.RouteStop) error

	// UpdateStatusVersioned applies a route status only when the version
	// still matches, returning false on conflict. Every route status
	// write goes through it; there is no unversioned route update.
	UpdateStatusVersioned(ctx context.Context, routeID uint64, status domain.RouteStatus, expectedVersion int64) (bool, error)
}
