package repository

import (
	"context"

	"fulfillment/internal/warehouse/domain"
)

type PickListRepository interface {
	Create(ctx context.Context, pickList *domain.PickList) error
	Save(ctx context.Context, pickList *domain.PickList) error
	SaveItem(ctx context.Context, item *domain.PickListItem) error
	FindByID(ctx context.Context, id uint64) (*domain.PickList, error)
	FindByOrder(ctx context.Context, orderID uint64) ([]domain.PickList, error)
	List(ctx context.Context, status domain.PickListStatus) ([]domain.PickList, error)
}
