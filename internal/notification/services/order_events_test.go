package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/event"
	"fulfillment/internal/notification/domain"
)

func TestOrderEventHandler(t *testing.T) {
	envelope := func(key string, data event.OrderEvent) event.Envelope {
		return event.Envelope{Event: key, Data: data}
	}

	t.Run("confirmed order notifies the customer", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		s := newTestService(repo, &fakeSender{})
		h := NewOrderEventHandler(s, zerolog.Nop())

		err := h.Handle(context.Background(), envelope(event.OrderConfirmed, event.OrderEvent{
			OrderNumber:   "ORD-AAAA1111",
			CustomerEmail: "a@b.c",
			Total:         "66.99",
		}))

		require.NoError(t, err)
		rows, err := repo.List(context.Background(), "", "a@b.c")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.ChannelEmail, rows[0].Channel)
		assert.Contains(t, rows[0].Subject, "ORD-AAAA1111")
		assert.Contains(t, rows[0].Body, "66.99")
	})

	t.Run("cancellation includes the reason", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		s := newTestService(repo, &fakeSender{})
		h := NewOrderEventHandler(s, zerolog.Nop())

		err := h.Handle(context.Background(), envelope(event.OrderCancelled, event.OrderEvent{
			OrderNumber:   "ORD-BBBB2222",
			CustomerEmail: "a@b.c",
			Reason:        "out of stock",
		}))

		require.NoError(t, err)
		rows, _ := repo.List(context.Background(), "", "")
		require.Len(t, rows, 1)
		assert.Contains(t, rows[0].Body, "out of stock")
	})

	t.Run("events without a recipient are skipped", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		s := newTestService(repo, &fakeSender{})
		h := NewOrderEventHandler(s, zerolog.Nop())

		err := h.Handle(context.Background(), envelope(event.OrderStatusChanged, event.OrderEvent{
			OrderNumber: "ORD-CCCC3333",
		}))

		require.NoError(t, err)
		assert.Empty(t, repo.rows)
	})
}
