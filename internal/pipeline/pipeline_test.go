package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockDashboardLoader struct {
	status domain.Status
	calls  atomic.Int64
}

func (m *mockDashboardLoader) LoadDashboard(_ context.Context) domain.Dashboard {
	m.calls.Add(1)
	d := domain.Dashboard{
		Status:   m.status,
		LoadedAt: fixedTime,
		Weather:  []domain.WeatherRecord{{Month: "2000-01", PrecipitationMM: 1, MaxTempC: 20}},
	}
	if m.status == domain.StatusFailed {
		d.Error = "load failed: boom"
		d.Weather = nil
	}
	return d
}

type mockPublisher struct {
	mu        sync.Mutex
	published [][]domain.Snapshot
	err       error
	notify    chan struct{}
}

func newMockPublisher(err error) *mockPublisher {
	return &mockPublisher{err: err, notify: make(chan struct{}, 16)}
}

func (m *mockPublisher) Publish(_ context.Context, snapshots []domain.Snapshot) error {
	m.mu.Lock()
	m.published = append(m.published, snapshots)
	m.mu.Unlock()
	m.notify <- struct{}{}
	return m.err
}

func (m *mockPublisher) batches() [][]domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Snapshot(nil), m.published...)
}

func waitForPublish(t *testing.T, p *mockPublisher) {
	t.Helper()
	select {
	case <-p.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for publish")
	}
}

func waitForCounter(t *testing.T, c prometheus.Counter, want float64) {
	t.Helper()
	require.Eventually(t, func() bool {
		var m dto.Metric
		if err := c.Write(&m); err != nil {
			return false
		}
		return m.GetCounter().GetValue() == want
	}, 2*time.Second, 5*time.Millisecond)
}

// --- tests ---

func TestRefresher_PublishesOnStartAndEveryTick(t *testing.T) {
	loader := &mockDashboardLoader{status: domain.StatusReady}
	pub := newMockPublisher(nil)
	metrics := newTestMetrics()
	clock := clockwork.NewFakeClock()

	r := pipeline.NewRefresher(loader, pub, time.Minute, clock, slog.Default(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	waitForPublish(t, pub)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	waitForPublish(t, pub)
	waitForCounter(t, metrics.SnapshotsPublished, 8)

	cancel()
	require.NoError(t, <-done)

	batches := pub.batches()
	require.Len(t, batches, 2)
	require.Len(t, batches[0], 4)
	assert.Equal(t, domain.DatasetWeather, batches[0][0].Dataset)
	assert.Equal(t, 1, batches[0][0].Rows)
	assert.Equal(t, fixedTime, batches[0][0].LoadedAt)
	assert.Equal(t, int64(2), loader.calls.Load())
}

func TestRefresher_SkipsFailedDashboard(t *testing.T) {
	loader := &mockDashboardLoader{status: domain.StatusFailed}
	pub := newMockPublisher(nil)
	metrics := newTestMetrics()
	clock := clockwork.NewFakeClock()

	r := pipeline.NewRefresher(loader, pub, time.Minute, clock, slog.Default(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, pub.batches())
	assert.Equal(t, int64(1), loader.calls.Load())
	assert.Zero(t, counterValue(t, metrics.SnapshotsPublished))
}

func TestRefresher_PublishErrorCountedNotRetried(t *testing.T) {
	loader := &mockDashboardLoader{status: domain.StatusReady}
	pub := newMockPublisher(errors.New("broker unavailable"))
	metrics := newTestMetrics()
	clock := clockwork.NewFakeClock()

	r := pipeline.NewRefresher(loader, pub, time.Minute, clock, slog.Default(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	waitForPublish(t, pub)
	waitForCounter(t, metrics.PublishErrors, 1)
	cancel()
	require.NoError(t, <-done)

	assert.Len(t, pub.batches(), 1)
	assert.Zero(t, counterValue(t, metrics.SnapshotsPublished))
}

func TestRefresher_ContextCancellation(t *testing.T) {
	loader := &mockDashboardLoader{status: domain.StatusReady}
	pub := newMockPublisher(nil)

	r := pipeline.NewRefresher(loader, pub, time.Minute, clockwork.NewFakeClock(), slog.Default(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	require.NoError(t, r.Run(ctx))
	assert.Empty(t, pub.batches())
}
