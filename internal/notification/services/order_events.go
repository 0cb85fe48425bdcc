package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"fulfillment/internal/event"
	"fulfillment/internal/notification/domain"
)

// OrderEventHandler turns order lifecycle events into customer notifications.
type OrderEventHandler struct {
	service *NotificationService
	logger  zerolog.Logger
}

func NewOrderEventHandler(service *NotificationService, logger zerolog.Logger) *OrderEventHandler {
	return &OrderEventHandler{service: service, logger: logger}
}

// Bindings lists the routing keys this handler consumes.
func (h *OrderEventHandler) Bindings() []string {
	return []string{event.OrderConfirmed, event.OrderCancelled, event.OrderStatusChanged}
}

func (h *OrderEventHandler) Handle(ctx context.Context, env event.Envelope) error {
	var payload event.OrderEvent
	if err := env.DecodeData(&payload); err != nil {
		h.logger.Error().Err(err).Str("event", env.Event).Msg("undecodable order event payload")
		return nil
	}
	if payload.CustomerEmail == "" {
		h.logger.Debug().
			Str("event", env.Event).
			Str("order_number", payload.OrderNumber).
			Msg("order event carries no recipient, skipping")
		return nil
	}

	subject, body := composeOrderMessage(env.Event, payload)
	_, err := h.service.Send(ctx, SendInput{
		Recipient: payload.CustomerEmail,
		Channel:   domain.ChannelEmail,
		Subject:   subject,
		Body:      body,
	})
	return err
}

func composeOrderMessage(eventName string, p event.OrderEvent) (subject, body string) {
	switch eventName {
	case event.OrderConfirmed:
		subject = fmt.Sprintf("Order %s confirmed", p.OrderNumber)
		body = fmt.Sprintf("Your order %s has been confirmed. Total: %s.", p.OrderNumber, p.Total)
	case event.OrderCancelled:
		subject = fmt.Sprintf("Order %s cancelled", p.OrderNumber)
		body = fmt.Sprintf("Your order %s has been cancelled.", p.OrderNumber)
		if p.Reason != "" {
			body = fmt.Sprintf("%s Reason: %s.", body, p.Reason)
		}
	default:
		subject = fmt.Sprintf("Order %s update", p.OrderNumber)
		body = fmt.Sprintf("Your order %s is now %s.", p.OrderNumber, p.Status)
	}
	return subject, body
}
