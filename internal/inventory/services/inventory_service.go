package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fulfillment/internal/apperr"
	"fulfillment/internal/inventory/domain"
	"fulfillment/internal/inventory/repository"
)

const productCacheTTL = time.Minute

// InventoryService owns products and their stock. Stock mutation is the
// one operation other services depend on being atomic and idempotent.
type InventoryService struct {
	repo        repository.ProductRepository
	redisClient *redis.Client
	logger      zerolog.Logger
}

func NewInventoryService(r repository.ProductRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: r, logger: logger}
}

func (s *InventoryService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *InventoryService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if p.Stock < 0 {
		return nil, apperr.Validation("initial stock cannot be negative")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Transaction(err, "failed to create product")
	}
	return p, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if p := s.cachedProduct(ctx, id); p != nil {
		return p, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load product %d", id)
	}
	if p == nil {
		return nil, apperr.NotFound("product %d not found", id)
	}

	s.cacheProduct(ctx, p)
	return p, nil
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list products")
	}
	return out, nil
}

func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	out, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list low-stock products")
	}
	return out, nil
}

// AdjustStock applies quantityDelta atomically, keyed by the caller's
// idempotency key. Replays return the original movement.
func (s *InventoryService) AdjustStock(ctx context.Context, productID uint64, delta int64, idempotencyKey, reason string) (*domain.StockMovement, error) {
	if idempotencyKey == "" {
		return nil, apperr.Validation("idempotencyKey is required")
	}
	if delta == 0 {
		return nil, apperr.Validation("quantityDelta must be non-zero")
	}

	movement, err := s.repo.AdjustStock(ctx, productID, delta, idempotencyKey, reason)
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(ctx, productID)
	s.logger.Info().
		Uint64("product_id", productID).
		Int64("delta", delta).
		Int64("stock_after", movement.StockAfter).
		Msg("stock adjusted")
	return movement, nil
}

func (s *InventoryService) MovementHistory(ctx context.Context, productID uint64) ([]domain.StockMovement, error) {
	out, err := s.repo.Movements(ctx, productID)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load movements for product %d", productID)
	}
	return out, nil
}

func (s *InventoryService) cachedProduct(ctx context.Context, id uint64) *domain.Product {
	if s.redisClient == nil {
		return nil
	}
	cached, err := s.redisClient.Get(ctx, productCacheKey(id)).Result()
	if err != nil {
		return nil
	}
	var p domain.Product
	if err := json.Unmarshal([]byte(cached), &p); err != nil {
		return nil
	}
	return &p
}

func (s *InventoryService) cacheProduct(ctx context.Context, p *domain.Product) {
	if s.redisClient == nil {
		return
	}
	if data, err := json.Marshal(p); err == nil {
		s.redisClient.Set(ctx, productCacheKey(p.ID), data, productCacheTTL)
	}
}

func (s *InventoryService) invalidateProduct(ctx context.Context, id uint64) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, productCacheKey(id))
}

func productCacheKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
