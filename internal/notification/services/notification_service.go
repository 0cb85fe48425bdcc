package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fulfillment/internal/apperr"
	"fulfillment/internal/notification/channel"
	"fulfillment/internal/notification/domain"
	"fulfillment/internal/notification/repository"
)

type SendInput struct {
	Recipient string
	Channel   domain.Channel
	Subject   string
	Body      string
}

// NotificationService records notifications durably and attempts delivery.
// A row is persisted as PENDING before the first send so a crash mid-send
// loses nothing; the dispatcher picks up whatever was not SENT.
type NotificationService struct {
	repo        repository.NotificationRepository
	sender      channel.Sender
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
	logger      zerolog.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	sender channel.Sender,
	maxAttempts int,
	retryBase, retryCap time.Duration,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:        repo,
		sender:      sender,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
		retryCap:    retryCap,
		logger:      logger,
	}
}

// Send persists the notification and tries to deliver it once inline.
// Delivery failure does not fail the call; retries happen on the poll loop.
func (s *NotificationService) Send(ctx context.Context, in SendInput) (*domain.Notification, error) {
	n, err := domain.New(in.Recipient, in.Channel, in.Subject, in.Body, s.maxAttempts)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperr.Transaction(err, "failed to persist notification")
	}

	if err := s.attempt(ctx, n); err != nil {
		s.logger.Warn().Err(err).Uint64("notification_id", n.ID).Msg("inline delivery attempt failed")
	}
	return n, nil
}

func (s *NotificationService) Get(ctx context.Context, id uint64) (*domain.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to load notification %d", id)
	}
	if n == nil {
		return nil, apperr.NotFound("notification %d not found", id)
	}
	return n, nil
}

// MarkDelivered records a provider delivery receipt. Only a SENT
// notification can be confirmed delivered.
func (s *NotificationService) MarkDelivered(ctx context.Context, id uint64) (*domain.Notification, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := n.Transition(domain.StatusDelivered); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, apperr.Transaction(err, "failed to record delivery receipt for notification %d", id)
	}
	s.logger.Info().Uint64("notification_id", n.ID).Msg("delivery receipt recorded")
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, status domain.Status, recipient string) ([]domain.Notification, error) {
	out, err := s.repo.List(ctx, status, recipient)
	if err != nil {
		return nil, apperr.Transaction(err, "failed to list notifications")
	}
	return out, nil
}

// attempt claims the row, sends, and writes the outcome back. The claim is
// a guarded PENDING to SENDING update, so two workers racing on the same
// row results in exactly one send.
func (s *NotificationService) attempt(ctx context.Context, n *domain.Notification) error {
	claimed, err := s.repo.Claim(ctx, n.ID)
	if err != nil {
		return apperr.Transaction(err, "failed to claim notification %d", n.ID)
	}
	if !claimed {
		return nil
	}
	n.Status = domain.StatusSending

	now := time.Now()
	if sendErr := s.sender.Send(ctx, n); sendErr != nil {
		if err := n.MarkAttemptFailed(sendErr, now, s.retryBase, s.retryCap); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, n); err != nil {
			return apperr.Transaction(err, "failed to record attempt for notification %d", n.ID)
		}
		s.logger.Warn().Err(sendErr).
			Uint64("notification_id", n.ID).
			Int("attempt", n.AttemptCount).
			Str("status", string(n.Status)).
			Msg("notification send failed")
		return apperr.NotificationDelivery(sendErr, "delivery failed for notification %d", n.ID)
	}

	if err := n.MarkSent(now); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return apperr.Transaction(err, "failed to mark notification %d sent", n.ID)
	}
	s.logger.Info().
		Uint64("notification_id", n.ID).
		Str("channel", string(n.Channel)).
		Msg("notification sent")
	return nil
}
