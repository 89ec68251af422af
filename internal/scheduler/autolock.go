package scheduler

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// sweepTimeout bounds one sweep pass so a wedged database cannot stall the
// ticker loop forever.
const sweepTimeout = 2 * time.Minute

// AutoLocker periodically locks stale draft transactions. It has no private
// mutation path: every lock goes through the same service-level CAS
// transition as interactive calls.
type AutoLocker struct {
	transactionSvc portssvc.TransactionSvcFacade
	interval       time.Duration
	threshold      time.Duration
	logger         *slog.Logger
}

// NewAutoLocker creates a scheduler that sweeps drafts older than threshold
// every interval.
func NewAutoLocker(transactionSvc portssvc.TransactionSvcFacade, interval, threshold time.Duration, logger *slog.Logger) *AutoLocker {
	return &AutoLocker{
		transactionSvc: transactionSvc,
		interval:       interval,
		threshold:      threshold,
		logger:         logger.With(slog.String("component", "autolock_scheduler")),
	}
}

// Run blocks until ctx is cancelled, sweeping on every tick. Start it in its
// own goroutine.
func (a *AutoLocker) Run(ctx context.Context) {
	a.logger.Info("Auto-lock scheduler started",
		slog.Duration("interval", a.interval),
		slog.Duration("threshold", a.threshold),
	)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Auto-lock scheduler stopped")
			return
		case <-ticker.C:
			a.sweep(ctx)
		}
	}
}

func (a *AutoLocker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(middleware.WithLogger(ctx, a.logger), sweepTimeout)
	defer cancel()

	count, err := a.transactionSvc.SweepStaleDrafts(sweepCtx, a.threshold)
	if err != nil {
		a.logger.Error("Stale draft sweep failed", slog.String("error", err.Error()), slog.Int("locked_before_failure", count))
		return
	}
	if count > 0 {
		a.logger.Info("Stale draft sweep finished", slog.Int("locked", count))
	}
}
