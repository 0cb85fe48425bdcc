// Package saga coordinates order creation as an ordered list of forward
// actions paired with compensations, executed without a distributed
// transaction manager.
package saga

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fulfillment/internal/apperr"
)

// Step is a single unit of work in the saga. Compensate must
// semantically undo the effects of a successful Execute.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs steps sequentially; on failure it compensates every
// previously successful step in reverse order.
type Orchestrator struct {
	steps  []Step
	logger zerolog.Logger
}

func NewOrchestrator(steps []Step, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{steps: steps, logger: logger}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	var successful []Step

	for _, step := range o.steps {
		// Caller cancellation takes the same compensation path as a
		// step failure: stock already decremented must come back.
		if err := ctx.Err(); err != nil {
			o.rollback(ctx, successful)
			return apperr.RemoteService(err, "order creation aborted")
		}

		if err := step.Execute(ctx); err != nil {
			o.logger.Warn().Err(err).Str("step", step.Name()).Msg("saga step failed, rolling back")
			o.rollback(ctx, successful)
			return err
		}
		successful = append(successful, step)
	}

	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) {
	// Compensations must run even when the caller is gone, so they get
	// a detached context with their own deadline.
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.Compensate(compCtx); err != nil {
			// A failed compensation needs operator attention; the
			// idempotency keys make a manual replay safe.
			o.logger.Error().Err(err).Str("step", step.Name()).Msg("compensation failed")
		}
	}
}
