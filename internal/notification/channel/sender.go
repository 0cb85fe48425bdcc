package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/apperr"
	"fulfillment/internal/notification/domain"
)

// Sender pushes a single notification out over its channel.
type Sender interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// WebhookSender delivers notifications by POSTing them to a per-channel
// gateway endpoint, such as an email or SMS provider bridge.
type WebhookSender struct {
	baseURL string
	client  *http.Client
}

func NewWebhookSender(baseURL string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (s *WebhookSender) Send(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(webhookPayload{
		Recipient: n.Recipient,
		Channel:   string(n.Channel),
		Subject:   n.Subject,
		Body:      n.Body,
	})
	if err != nil {
		return apperr.NotificationDelivery(err, "failed to encode notification %d", n.ID)
	}

	url := fmt.Sprintf("%s/send/%s", s.baseURL, channelPath(n.Channel))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperr.NotificationDelivery(err, "failed to build request for notification %d", n.ID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperr.NotificationDelivery(err, "gateway call failed for notification %d", n.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperr.NotificationDelivery(nil, "gateway returned %d for notification %d: %s", resp.StatusCode, n.ID, string(body))
	}
	return nil
}

func channelPath(c domain.Channel) string {
	switch c {
	case domain.ChannelEmail:
		return "email"
	case domain.ChannelSMS:
		return "sms"
	default:
		return "push"
	}
}
