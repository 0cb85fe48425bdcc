package http

import "fulfillment/internal/notification/domain"

type SendNotificationRequest struct {
	Recipient string         `json:"recipient" binding:"required"`
	Channel   domain.Channel `json:"channel" binding:"required"`
	Subject   string         `json:"subject"`
	Body      string         `json:"body" binding:"required"`
}
