package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
)

// Sources names the CSV resource for each dataset, relative to the fetcher's
// root.
type Sources struct {
	Weather    string
	Flood      string
	Hypsometry string
}

// Options bounds the size of loaded datasets.
type Options struct {
	FloodRecordCap  int // 0 keeps every valid row
	FloodScatterCap int // per class; 0 keeps every row
}

// DatasetStats describes how many rows of a dataset survived normalization.
type DatasetStats struct {
	Dataset domain.Dataset `json:"dataset"`
	Path    string         `json:"path"`
	Lines   int            `json:"lines"`
	Kept    int            `json:"kept"`
	Dropped int            `json:"dropped"`
}

// Loader fetches, parses, and normalizes the datasets. Every call produces
// fresh results owned by the caller; nothing is cached between loads.
type Loader struct {
	fetcher csvtable.Fetcher
	sources Sources
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// NewLoader creates a Loader reading from f.
func NewLoader(f csvtable.Fetcher, sources Sources, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher: f,
		sources: sources,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a dashboard load has succeeded.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if !l.ready.Load() {
		return errors.New("no dashboard load has succeeded yet")
	}
	return nil
}

// LoadWeather returns the monthly weather series sorted by month.
func (l *Loader) LoadWeather(ctx context.Context) ([]domain.WeatherRecord, error) {
	records, _, err := l.loadWeather(ctx)
	return records, err
}

func (l *Loader) loadWeather(ctx context.Context) ([]domain.WeatherRecord, DatasetStats, error) {
	stats := DatasetStats{Dataset: domain.DatasetWeather, Path: l.sources.Weather}
	start := time.Now()

	table, err := l.fetch(ctx, stats.Dataset, stats.Path)
	if err != nil {
		return nil, stats, err
	}
	records := domain.NormalizeWeather(table.Records)

	stats.Lines, stats.Kept = table.Len(), len(records)
	stats.Dropped = stats.Lines - stats.Kept
	l.observe(stats, start)
	return records, stats, nil
}

// LoadFlood returns the valid flood-risk records in source order, capped at
// the configured record limit.
func (l *Loader) LoadFlood(ctx context.Context) ([]domain.FloodRecord, error) {
	records, _, err := l.loadFlood(ctx)
	return records, err
}

func (l *Loader) loadFlood(ctx context.Context) ([]domain.FloodRecord, DatasetStats, error) {
	stats := DatasetStats{Dataset: domain.DatasetFlood, Path: l.sources.Flood}
	start := time.Now()

	table, err := l.fetch(ctx, stats.Dataset, stats.Path)
	if err != nil {
		return nil, stats, err
	}
	records := domain.NormalizeFlood(table.Records)

	stats.Lines, stats.Kept = table.Len(), len(records)
	stats.Dropped = stats.Lines - stats.Kept
	l.observe(stats, start)
	return domain.CapFloodRecords(records, l.opts.FloodRecordCap), stats, nil
}

// LoadFloodBySoil returns the top soil types by flood count.
func (l *Loader) LoadFloodBySoil(ctx context.Context) ([]domain.SoilFloodCount, error) {
	records, err := l.LoadFlood(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FloodBySoil(records), nil
}

// LoadFloodScatter returns the flood records split by outcome, capped per
// class.
func (l *Loader) LoadFloodScatter(ctx context.Context) (domain.FloodScatter, error) {
	records, err := l.LoadFlood(ctx)
	if err != nil {
		return domain.FloodScatter{}, err
	}
	return domain.SplitFloodScatter(records, l.opts.FloodScatterCap), nil
}

// LoadHypsometry returns the glacier area-by-elevation curve.
func (l *Loader) LoadHypsometry(ctx context.Context) (domain.HypsometryCurve, error) {
	curve, _, err := l.loadHypsometry(ctx)
	return curve, err
}

func (l *Loader) loadHypsometry(ctx context.Context) (domain.HypsometryCurve, DatasetStats, error) {
	stats := DatasetStats{Dataset: domain.DatasetHypsometry, Path: l.sources.Hypsometry}
	start := time.Now()

	table, err := l.fetch(ctx, stats.Dataset, stats.Path)
	if err != nil {
		return domain.HypsometryCurve{}, stats, err
	}
	curve := domain.ComputeHypsometry(table)

	stats.Lines, stats.Kept = table.Len(), curve.GlacierCount
	l.observe(stats, start)
	return curve, stats, nil
}

// LoadDashboard loads every dataset concurrently and waits for all of them.
// A failure in any one load fails the dashboard as a whole: the result
// carries the error message and no data.
func (l *Loader) LoadDashboard(ctx context.Context) domain.Dashboard {
	var (
		wg               sync.WaitGroup
		weather          []domain.WeatherRecord
		flood            []domain.FloodRecord
		curve            domain.HypsometryCurve
		werr, ferr, herr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		weather, werr = l.LoadWeather(ctx)
	}()
	go func() {
		defer wg.Done()
		flood, ferr = l.LoadFlood(ctx)
	}()
	go func() {
		defer wg.Done()
		curve, herr = l.LoadHypsometry(ctx)
	}()
	wg.Wait()

	if err := errors.Join(werr, ferr, herr); err != nil {
		d := emptyDashboard(domain.StatusFailed)
		d.Error = domain.NewLoadError(err).Error()
		l.logger.Error("dashboard load failed", "error", err)
		l.metrics.DashboardLoads.WithLabelValues(string(d.Status)).Inc()
		return d
	}

	d := domain.Dashboard{
		Status:       domain.StatusReady,
		LoadedAt:     domain.Now(),
		Weather:      weather,
		Flood:        flood,
		FloodBySoil:  domain.FloodBySoil(flood),
		FloodScatter: domain.SplitFloodScatter(flood, l.opts.FloodScatterCap),
		Hypsometry:   curve,
	}
	if len(weather) == 0 && len(flood) == 0 && len(curve.Bins) == 0 {
		d.Status = domain.StatusEmpty
	}

	l.ready.Store(true)
	l.metrics.DashboardLoads.WithLabelValues(string(d.Status)).Inc()
	l.logger.Info("dashboard loaded",
		"status", d.Status,
		"weather_rows", len(weather),
		"flood_rows", len(flood),
		"elevation_bins", len(curve.Bins),
	)
	return d
}

// Validate loads each dataset in turn and reports per-dataset row counts.
// It stops at the first dataset that cannot be fetched.
func (l *Loader) Validate(ctx context.Context) ([]DatasetStats, error) {
	out := make([]DatasetStats, 0, 3)

	_, ws, err := l.loadWeather(ctx)
	if err != nil {
		return out, err
	}
	out = append(out, ws)

	_, fs, err := l.loadFlood(ctx)
	if err != nil {
		return out, err
	}
	out = append(out, fs)

	_, hs, err := l.loadHypsometry(ctx)
	if err != nil {
		return out, err
	}
	return append(out, hs), nil
}

func (l *Loader) fetch(ctx context.Context, dataset domain.Dataset, path string) (csvtable.Table, error) {
	l.logger.Debug("fetching dataset", "dataset", dataset, "path", path)
	table, err := csvtable.Load(ctx, l.fetcher, path)
	if err != nil {
		l.logger.Warn("dataset fetch failed", "dataset", dataset, "path", path, "error", err)
		l.metrics.DatasetLoads.WithLabelValues(string(dataset), "error").Inc()
		return csvtable.Table{}, err
	}
	return table, nil
}

func (l *Loader) observe(stats DatasetStats, start time.Time) {
	name := string(stats.Dataset)
	l.metrics.DatasetLoads.WithLabelValues(name, "success").Inc()
	l.metrics.DatasetLoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	l.metrics.RowsRead.WithLabelValues(name).Add(float64(stats.Lines))
	l.metrics.RowsDropped.WithLabelValues(name).Add(float64(stats.Dropped))
	if stats.Dropped > 0 {
		l.logger.Debug("dropped invalid rows", "dataset", name, "dropped", stats.Dropped)
	}
}

func emptyDashboard(status domain.Status) domain.Dashboard {
	return domain.Dashboard{
		Status:       status,
		LoadedAt:     domain.Now(),
		Weather:      []domain.WeatherRecord{},
		Flood:        []domain.FloodRecord{},
		FloodBySoil:  []domain.SoilFloodCount{},
		FloodScatter: domain.SplitFloodScatter(nil, 0),
		Hypsometry:   domain.HypsometryCurve{Bins: []domain.HypsometryBin{}},
	}
}
