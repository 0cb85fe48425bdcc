package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/event"
	"fulfillment/internal/warehouse/domain"
)

func TestOrderConfirmedCreatesPickList(t *testing.T) {
	env := event.Envelope{
		Event: event.OrderConfirmed,
		Data: event.OrderEvent{
			OrderID:     12,
			OrderNumber: "ORD-AAAA1111",
			Items: []event.OrderEventItem{
				{ProductID: 1, ProductName: "Widget", Quantity: 3},
			},
		},
	}

	t.Run("creates on first delivery", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		h := NewOrderEventHandler(s, zerolog.Nop())

		repo.On("FindByOrder", mock.Anything, uint64(12)).Return([]domain.PickList{}, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.PickList) bool {
			return p.OrderID == 12 && len(p.Items) == 1 && p.Items[0].QuantityRequired == 3
		})).Return(nil)

		require.NoError(t, h.Handle(context.Background(), env))
		repo.AssertExpectations(t)
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		h := NewOrderEventHandler(s, zerolog.Nop())

		repo.On("FindByOrder", mock.Anything, uint64(12)).Return(
			[]domain.PickList{{ID: 1, OrderID: 12}}, nil)

		require.NoError(t, h.Handle(context.Background(), env))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("event without items is dropped", func(t *testing.T) {
		repo := new(mockPickListRepo)
		s := NewWarehouseService(repo, zerolog.Nop())
		h := NewOrderEventHandler(s, zerolog.Nop())

		empty := event.Envelope{Event: event.OrderConfirmed, Data: event.OrderEvent{OrderID: 13}}
		require.NoError(t, h.Handle(context.Background(), empty))
		repo.AssertNotCalled(t, "Create")
	})
}
