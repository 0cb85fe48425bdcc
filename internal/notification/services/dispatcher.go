package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher drains due PENDING notifications on a fixed interval.
type Dispatcher struct {
	service      *NotificationService
	pollInterval time.Duration
	batchSize    int
	logger       zerolog.Logger
}

func NewDispatcher(service *NotificationService, pollInterval time.Duration, batchSize int, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		service:      service,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	due, err := d.service.repo.FindDue(ctx, time.Now(), d.batchSize)
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to load due notifications")
		return
	}
	for i := range due {
		if ctx.Err() != nil {
			return
		}
		if err := d.service.attempt(ctx, &due[i]); err != nil {
			d.logger.Warn().Err(err).Uint64("notification_id", due[i].ID).Msg("retry attempt failed")
		}
	}
}
