package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/apperr"
	"fulfillment/internal/warehouse/domain"
)

type mockPickListRepo struct {
	mock.Mock
}

func (m *mockPickListRepo) Create(ctx context.Context, pickList *domain.PickList) error {
	args := m.Called(ctx, pickList)
	return args.Error(0)
}

func (m *mockPickListRepo) Save(ctx context.Context, pickList *domain.PickList) error {
	args := m.Called(ctx, pickList)
	return args.Error(0)
}

func (m *mockPickListRepo) SaveItem(ctx context.Context, item *domain.PickListItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockPickListRepo) FindByID(ctx context.Context, id uint64) (*domain.PickList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickList), args.Error(1)
}

func (m *mockPickListRepo) FindByOrder(ctx context.Context, orderID uint64) ([]domain.PickList, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PickList), args.Error(1)
}

func (m *mockPickListRepo) List(ctx context.Context, status domain.PickListStatus) ([]domain.PickList, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PickList), args.Error(1)
}

func TestCreatePickList(t *testing.T) {
	t.Run("copies items as pending", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		pickList, err := s.CreatePickList(context.Background(), CreatePickListInput{
			OrderID:     12,
			OrderNumber: "ORD-AAAA1111",
			Items: []CreatePickListItem{
				{ProductID: 1, ProductName: "Widget", Quantity: 3},
				{ProductID: 2, ProductName: "Gadget", Quantity: 1},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PickListPending, pickList.Status)
		assert.Equal(t, 2, pickList.TotalItems)
		assert.Equal(t, 0, pickList.PickedItems)
		require.Len(t, pickList.Items, 2)
		assert.Equal(t, int64(3), pickList.Items[0].QuantityRequired)
		assert.Equal(t, domain.ItemPending, pickList.Items[0].Status)
		assert.Contains(t, pickList.PickListNumber, "PL-")
	})

	t.Run("rejects missing order and empty items", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())

		_, err := s.CreatePickList(context.Background(), CreatePickListInput{OrderID: 0})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		_, err = s.CreatePickList(context.Background(), CreatePickListInput{OrderID: 5})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		repo.AssertNotCalled(t, "Create")
	})
}

func testPickList() *domain.PickList {
	return &domain.PickList{
		ID:             1,
		PickListNumber: "PL-TEST0001",
		OrderID:        12,
		Status:         domain.PickListPending,
		TotalItems:     2,
		Items: []domain.PickListItem{
			{ID: 10, PickListID: 1, ProductID: 1, QuantityRequired: 3, Status: domain.ItemPending},
			{ID: 11, PickListID: 1, ProductID: 2, QuantityRequired: 2, Status: domain.ItemPending},
		},
	}
}

func TestUpdateItem(t *testing.T) {
	t.Run("full pick starts the list and updates progress", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		pickList := testPickList()
		repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)
		repo.On("SaveItem", mock.Anything, mock.Anything).Return(nil)
		repo.On("Save", mock.Anything, pickList).Return(nil)

		out, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			QuantityPicked: 3,
			Status:         domain.ItemPicked,
			PickedBy:       "picker-7",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PickListInProgress, out.Status)
		assert.NotNil(t, out.StartedAt)
		assert.Equal(t, 1, out.PickedItems)
		assert.Equal(t, 50, out.CompletionPercent)
		assert.Equal(t, int64(3), out.Items[0].QuantityPicked)
		assert.Equal(t, "picker-7", out.Items[0].PickedBy)
	})

	t.Run("short pick records the shortfall", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		pickList := testPickList()
		repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)
		repo.On("SaveItem", mock.Anything, mock.Anything).Return(nil)
		repo.On("Save", mock.Anything, pickList).Return(nil)

		out, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			QuantityPicked: 1,
			Status:         domain.ItemShort,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.ItemShort, out.Items[0].Status)
		assert.Equal(t, int64(1), out.Items[0].QuantityPicked)
		assert.Equal(t, int64(2), out.Items[0].QuantityShort)
	})

	t.Run("short pick of the full quantity is rejected", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("FindByID", mock.Anything, uint64(1)).Return(testPickList(), nil)

		_, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			QuantityPicked: 3,
			Status:         domain.ItemShort,
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("partial quantity needs SHORT not PICKED", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("FindByID", mock.Anything, uint64(1)).Return(testPickList(), nil)

		_, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			QuantityPicked: 2,
			Status:         domain.ItemPicked,
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("substitution requires a substitute product", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("FindByID", mock.Anything, uint64(1)).Return(testPickList(), nil)

		_, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			Status: domain.ItemSubstituted,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("resolved item cannot be updated again", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		pickList := testPickList()
		pickList.Items[0].Status = domain.ItemPicked
		repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)

		_, err := s.UpdateItem(context.Background(), 1, 10, UpdateItemInput{
			QuantityPicked: 3,
			Status:         domain.ItemPicked,
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		repo.AssertNotCalled(t, "SaveItem")
	})

	t.Run("unknown item", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("FindByID", mock.Anything, uint64(1)).Return(testPickList(), nil)

		_, err := s.UpdateItem(context.Background(), 1, 99, UpdateItemInput{
			QuantityPicked: 3,
			Status:         domain.ItemPicked,
		})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestComplete(t *testing.T) {
	t.Run("short picks still complete", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		pickList := testPickList()
		pickList.Status = domain.PickListInProgress
		pickList.Items[0].Status = domain.ItemPicked
		pickList.Items[1].Status = domain.ItemShort
		repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)
		repo.On("Save", mock.Anything, pickList).Return(nil)

		out, err := s.Complete(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, domain.PickListCompleted, out.Status)
		assert.NotNil(t, out.CompletedAt)
	})

	t.Run("unpicked item blocks completion", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		pickList := testPickList()
		pickList.Status = domain.PickListInProgress
		pickList.Items[0].Status = domain.ItemPicked
		repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)

		_, err := s.Complete(context.Background(), 1)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("pending list cannot complete directly", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		repo.On("FindByID", mock.Anything, uint64(1)).Return(testPickList(), nil)

		_, err := s.Complete(context.Background(), 1)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestAssign(t *testing.T) {
	repo := new(mockPickListRepo)
	s := NewWarehouseService(repo, zerolog.Nop())
	pickList := testPickList()
	repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)
	repo.On("Save", mock.Anything, pickList).Return(nil)

	out, err := s.Assign(context.Background(), 1, "picker-3")

	require.NoError(t, err)
	assert.Equal(t, domain.PickListInProgress, out.Status)
	assert.Equal(t, "picker-3", out.AssignedTo)

	_, err = s.Assign(context.Background(), 1, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCancelPickList(t *testing.T) {
	repo := new(mockPickListRepo)
	s := NewWarehouseService(repo, zerolog.Nop())
	pickList := testPickList()
	pickList.Status = domain.PickListCompleted
	repo.On("FindByID", mock.Anything, uint64(1)).Return(pickList, nil)

	_, err := s.CancelPickList(context.Background(), 1)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
