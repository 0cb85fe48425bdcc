package services

import (
	"context"

	"github.com/rs/zerolog"

	"fulfillment/internal/event"
)

// OrderEventHandler creates a pick list whenever an order is confirmed.
type OrderEventHandler struct {
	service *WarehouseService
	logger  zerolog.Logger
}

func NewOrderEventHandler(service *WarehouseService, logger zerolog.Logger) *OrderEventHandler {
	return &OrderEventHandler{service: service, logger: logger}
}

func (h *OrderEventHandler) Bindings() []string {
	return []string{event.OrderConfirmed}
}

func (h *OrderEventHandler) Handle(ctx context.Context, env event.Envelope) error {
	var payload event.OrderEvent
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Error().Err(err).Str("event", env.Event).Msg("undecodable order event payload")
		return nil
	}
	if len(payload.Items) == 0 {
		h.logger.Warn().
			Str("order_number", payload.OrderNumber).
			Msg("confirmed order event carries no items, skipping pick list")
		return nil
	}

	// Confirmed events can be redelivered; one pick list per order is enough.
	existing, err := h.service.FindByOrder(ctx, payload.OrderID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	items := make([]CreatePickListItem, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = CreatePickListItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
	}
	pickList, err := h.service.CreatePickList(ctx, CreatePickListInput{
		OrderID:     payload.OrderID,
		OrderNumber: payload.OrderNumber,
		Items:       items,
	})
	if err != nil {
		return err
	}
	h.logger.Info().
		Str("pick_list", pickList.PickListNumber).
		Str("order_number", payload.OrderNumber).
		Msg("pick list created for confirmed order")
	return nil
}
