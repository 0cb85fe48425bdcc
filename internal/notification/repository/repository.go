package repository

import (
	"context"
	"time"

	"fulfillment/internal/notification/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Save(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id uint64) (*domain.Notification, error)
	List(ctx context.Context, status domain.Status, recipient string) ([]domain.Notification, error)

	// FindDue returns PENDING notifications whose retry time has passed,
	// oldest first, up to limit.
	FindDue(ctx context.Context, now time.Time, limit int) ([]domain.Notification, error)

	// Claim moves a PENDING notification to SENDING with a guarded update.
	// It reports false when another worker claimed the row first.
	Claim(ctx context.Context, id uint64) (bool, error)
}
