package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/warehouse/domain"
	"fulfillment/internal/warehouse/repository"
)

type pickListRepo struct {
	db *gorm.DB
}

func NewPickListRepository(db *gorm.DB) repository.PickListRepository {
	return &pickListRepo{db: db}
}

func (r *pickListRepo) Create(ctx context.Context, pickList *domain.PickList) error {
	return r.db.WithContext(ctx).Create(pickList).Error
}

func (r *pickListRepo) Save(ctx context.Context, pickList *domain.PickList) error {
	return r.db.WithContext(ctx).Save(pickList).Error
}

func (r *pickListRepo) SaveItem(ctx context.Context, item *domain.PickListItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *pickListRepo) FindByID(ctx context.Context, id uint64) (*domain.PickList, error) {
	var p domain.PickList
	if err := r.db.WithContext(ctx).Preload("Items").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *pickListRepo) FindByOrder(ctx context.Context, orderID uint64) ([]domain.PickList, error) {
	var out []domain.PickList
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pickListRepo) List(ctx context.Context, status domain.PickListStatus) ([]domain.PickList, error) {
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.PickList
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
