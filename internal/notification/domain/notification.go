package domain

import (
	"time"

	"fulfillment/internal/apperr"
)

type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSending   Status = "SENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
)

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusSending},
	StatusSending:   {StatusSent, StatusPending, StatusFailed},
	StatusSent:      {StatusDelivered},
	StatusDelivered: {},
	StatusFailed:    {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

type Notification struct {
	ID           uint64     `json:"id" gorm:"primaryKey"`
	Recipient    string     `json:"recipient" gorm:"size:255;not null;index"`
	Channel      Channel    `json:"channel" gorm:"size:16;not null"`
	Subject      string     `json:"subject" gorm:"size:255"`
	Body         string     `json:"body" gorm:"type:text"`
	Status       Status     `json:"status" gorm:"size:16;not null;index"`
	AttemptCount int        `json:"attemptCount" gorm:"not null;default:0"`
	MaxAttempts  int        `json:"maxAttempts" gorm:"not null"`
	NextRetryAt  *time.Time `json:"nextRetryAt" gorm:"index"`
	LastError    string     `json:"lastError" gorm:"size:1024"`
	SentAt       *time.Time `json:"sentAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Notification) TableName() string { return "notifications" }

func New(recipient string, channel Channel, subject, body string, maxAttempts int) (*Notification, error) {
	if recipient == "" {
		return nil, apperr.Validation("recipient is required")
	}
	if !channel.Valid() {
		return nil, apperr.Validation("unknown channel %q", channel)
	}
	if maxAttempts < 1 {
		return nil, apperr.Validation("maxAttempts must be at least 1")
	}
	return &Notification{
		Recipient:   recipient,
		Channel:     channel,
		Subject:     subject,
		Body:        body,
		Status:      StatusPending,
		MaxAttempts: maxAttempts,
	}, nil
}

func (n *Notification) Transition(next Status) error {
	if !n.Status.CanTransitionTo(next) {
		return apperr.Validation("notification %d cannot go from %s to %s", n.ID, n.Status, next)
	}
	n.Status = next
	return nil
}

// MarkSent records a successful delivery attempt.
func (n *Notification) MarkSent(now time.Time) error {
	if err := n.Transition(StatusSent); err != nil {
		return err
	}
	n.SentAt = &now
	n.NextRetryAt = nil
	n.LastError = ""
	return nil
}

// MarkAttemptFailed counts the failed attempt and either schedules a retry
// or, once the attempt budget is exhausted, parks the notification as FAILED.
func (n *Notification) MarkAttemptFailed(cause error, now time.Time, retryBase, retryCap time.Duration) error {
	n.AttemptCount++
	n.LastError = cause.Error()

	if n.AttemptCount >= n.MaxAttempts {
		if err := n.Transition(StatusFailed); err != nil {
			return err
		}
		n.NextRetryAt = nil
		return nil
	}

	if err := n.Transition(StatusPending); err != nil {
		return err
	}
	retryAt := now.Add(Backoff(n.AttemptCount, retryBase, retryCap))
	n.NextRetryAt = &retryAt
	return nil
}

// Backoff returns retryBase doubled per completed attempt, capped at retryCap.
func Backoff(attempts int, retryBase, retryCap time.Duration) time.Duration {
	d := retryBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= retryCap {
			return retryCap
		}
	}
	if d > retryCap {
		return retryCap
	}
	return d
}
