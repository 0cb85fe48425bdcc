package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/apperr"
	"fulfillment/internal/inventory/domain"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindLowStock(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) AdjustStock(ctx context.Context, productID uint64, delta int64, idempotencyKey, reason string) (*domain.StockMovement, error) {
	args := m.Called(ctx, productID, delta, idempotencyKey, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *mockProductRepo) Movements(ctx context.Context, productID uint64) ([]domain.StockMovement, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func TestCreateProduct(t *testing.T) {
	t.Run("persists a valid product", func(t *testing.T) {
		repo := new(mockProductRepo)
		s := NewInventoryService(repo, zerolog.Nop())
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		p, err := s.CreateProduct(context.Background(), &domain.Product{
			SKU:   "WID-1",
			Name:  "Widget",
			Price: decimal.RequireFromString("10.00"),
			Stock: 50,
		})

		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		repo := new(mockProductRepo)
		s := NewInventoryService(repo, zerolog.Nop())

		_, err := s.CreateProduct(context.Background(), &domain.Product{})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = s.CreateProduct(context.Background(), &domain.Product{Name: "Widget", Stock: -1})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		repo.AssertNotCalled(t, "Create")
	})
}

func TestGetProduct(t *testing.T) {
	repo := new(mockProductRepo)
	s := NewInventoryService(repo, zerolog.Nop())
	repo.On("FindByID", mock.Anything, uint64(404)).Return(nil, nil)

	_, err := s.GetProduct(context.Background(), 404)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAdjustStock(t *testing.T) {
	t.Run("delegates with the idempotency key", func(t *testing.T) {
		repo := new(mockProductRepo)
		s := NewInventoryService(repo, zerolog.Nop())
		repo.On("AdjustStock", mock.Anything, uint64(1), int64(-3), "key-1", "reservation").Return(
			&domain.StockMovement{ProductID: 1, QuantityDelta: -3, StockAfter: 47}, nil)

		movement, err := s.AdjustStock(context.Background(), 1, -3, "key-1", "reservation")

		require.NoError(t, err)
		assert.Equal(t, int64(47), movement.StockAfter)
		repo.AssertExpectations(t)
	})

	t.Run("requires a key and a non-zero delta", func(t *testing.T) {
		repo := new(mockProductRepo)
		s := NewInventoryService(repo, zerolog.Nop())

		_, err := s.AdjustStock(context.Background(), 1, -3, "", "r")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = s.AdjustStock(context.Background(), 1, 0, "key-1", "r")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		repo.AssertNotCalled(t, "AdjustStock")
	})

	t.Run("propagates short stock", func(t *testing.T) {
		repo := new(mockProductRepo)
		s := NewInventoryService(repo, zerolog.Nop())
		repo.On("AdjustStock", mock.Anything, uint64(1), int64(-100), "key-2", "").Return(
			nil, apperr.StockInsufficient("insufficient stock for product 1"))

		_, err := s.AdjustStock(context.Background(), 1, -100, "key-2", "")

		assert.True(t, apperr.IsKind(err, apperr.KindStockInsufficient))
	})
}
