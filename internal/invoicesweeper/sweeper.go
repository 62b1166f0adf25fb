// Package invoicesweeper periodically moves pending invoices past their grace period to overdue.
package invoicesweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper provides the invoice operation run on every tick.
type Sweeper interface {
	SweepOverdue(ctx context.Context, businessID string) (int64, error)
}

// Worker runs the overdue sweep for all businesses on a fixed interval.
type Worker struct {
	sweeper  Sweeper
	interval time.Duration
}

// New returns sweeper worker.
func New(s Sweeper, interval time.Duration) *Worker {
	return &Worker{
		sweeper:  s,
		interval: interval,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// A failed sweep is logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context) {
	l := zerolog.Ctx(ctx).With().Str("worker", "invoice_sweeper").Logger()
	ctx = l.WithContext(ctx)

	l.Info().Str("interval", w.interval.String()).Msg("starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.sweeper.SweepOverdue(ctx, ""); err != nil {
			l.Error().Err(err).Msg("sweep failed")
		}

		select {
		case <-ctx.Done():
			l.Info().Msg("stopped")
			return
		case <-ticker.C:
		}
	}
}
