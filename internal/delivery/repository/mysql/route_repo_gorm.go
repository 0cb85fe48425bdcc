package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/delivery/domain"
	"fulfillment/internal/delivery/repository"
)

type routeRepo struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) repository.RouteRepository {
	return &routeRepo{db: db}
}

func (r *routeRepo) Create(ctx context.Context, route *domain.DeliveryRoute) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *routeRepo) FindByID(ctx context.Context, id uint64) (*domain.DeliveryRoute, error) {
	var route domain.DeliveryRoute
	if err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("planned_sequence")
		}).
		First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

func (r *routeRepo) List(ctx context.Context, status domain.RouteStatus) ([]domain.DeliveryRoute, error) {
	q := r.db.WithContext(ctx).Preload("Stops").Order("route_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.DeliveryRoute
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *routeRepo) FindStop(ctx context.Context, stopID uint64) (*domain.RouteStop, error) {
	var stop domain.RouteStop
	if err := r.db.WithContext(ctx).First(&stop, stopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stop, nil
}

func (r *routeRepo) SaveStop(ctx context.Context, stop *domain.RouteStop) error {
	return r.db.WithContext(ctx).Save(stop).Error
}

func (r *routeRepo) AppendStop(ctx context.Context, stop *domain.RouteStop) error {
	return r.db.WithContext(ctx).Create(stop).Error
}

func (r *routeRepo) UpdateStatusVersioned(ctx context.Context, routeID uint64, status domain.RouteStatus, expectedVersion int64) (bool, error) {
	updates := map[string]any{
		"status":  status,
		"version": gorm.Expr("version + 1"),
	}
	switch status {
	case domain.RouteInProgress:
		updates["started_at"] = time.Now()
	case domain.RouteCompleted:
		updates["completed_at"] = time.Now()
	}

	res := r.db.WithContext(ctx).
		Model(&domain.DeliveryRoute{}).
		Where("id = ? AND version = ?", routeID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
