package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DashboardLoader produces a joint load of every dataset.
type DashboardLoader interface {
	LoadDashboard(ctx context.Context) domain.Dashboard
}

// Publisher writes dataset snapshots to the destination.
type Publisher interface {
	Publish(ctx context.Context, snapshots []domain.Snapshot) error
}

// Refresher periodically reloads the dashboard and publishes one snapshot
// per dataset.
type Refresher struct {
	loader    DashboardLoader
	publisher Publisher
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRefresher creates a Refresher. A nil clock uses the real clock.
func NewRefresher(l DashboardLoader, p Publisher, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Refresher{
		loader:    l,
		publisher: p,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run refreshes once immediately and then on every tick until the context is
// cancelled. A failed refresh is not retried; the next tick tries again.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.refresh(ctx)
		}
	}
}

// refresh runs one load-publish cycle.
func (r *Refresher) refresh(ctx context.Context) {
	d := r.loader.LoadDashboard(ctx)
	if ctx.Err() != nil {
		return
	}
	if d.Status == domain.StatusFailed {
		r.logger.Warn("skipping publish", "reason", d.Error)
		return
	}

	snapshots := d.Snapshots()
	if err := r.publisher.Publish(ctx, snapshots); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("publish snapshots failed", "error", err, "snapshots", len(snapshots))
		r.metrics.PublishErrors.Inc()
		return
	}

	r.metrics.SnapshotsPublished.Add(float64(len(snapshots)))
	r.logger.Info("snapshots published", "snapshots", len(snapshots), "status", d.Status)
}
