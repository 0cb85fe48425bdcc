package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fulfillment/internal/apperr"
	"fulfillment/internal/inventory/domain"
	"fulfillment/internal/inventory/repository"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) FindLowStock(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Where("stock <= reorder_level").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, productID uint64, delta int64, idempotencyKey, reason string) (*domain.StockMovement, error) {
	var movement domain.StockMovement

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replay check first: the same key always yields the original
		// outcome without reapplying the delta.
		err := tx.Where("idempotency_key = ?", idempotencyKey).First(&movement).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Guarded update keeps the decrement atomic server-side.
		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock + ? >= 0", productID, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var p domain.Product
			if err := tx.First(&p, productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product %d not found", productID)
				}
				return err
			}
			return apperr.StockInsufficient(
				"insufficient stock for product %d: available %d, requested %d",
				productID, p.Stock, -delta)
		}

		var p domain.Product
		if err := tx.First(&p, productID).Error; err != nil {
			return err
		}

		movement = domain.StockMovement{
			ProductID:      productID,
			QuantityDelta:  delta,
			StockAfter:     p.Stock,
			IdempotencyKey: idempotencyKey,
			Reason:         reason,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *productRepo) Movements(ctx context.Context, productID uint64) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
