package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for dataset
// loading, snapshot publishing, and the prediction API client.
type Metrics struct {
	DatasetLoads        *prometheus.CounterVec   // labels: dataset, outcome={success,error}
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset
	RowsRead            *prometheus.CounterVec   // labels: dataset
	RowsDropped         *prometheus.CounterVec   // labels: dataset
	DashboardLoads      *prometheus.CounterVec   // labels: status={ready,empty,failed}

	// Snapshot publishing.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	RefresherRunning   prometheus.Gauge

	// Prediction API.
	PredictRequests    *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	PredictAPIDuration *prometheus.HistogramVec // labels: endpoint
	PredictCache       *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all metrics and registers them with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadDuration,
		m.RowsRead,
		m.RowsDropped,
		m.DashboardLoads,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.RefresherRunning,
		m.PredictRequests,
		m.PredictAPIDuration,
		m.PredictCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "riverflow",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a fetch-parse-normalize cycle for one dataset.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"dataset"}),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "rows_read_total",
			Help:      "CSV data rows read, by dataset.",
		}, []string{"dataset"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "rows_dropped_total",
			Help:      "CSV data rows dropped during normalization, by dataset.",
		}, []string{"dataset"}),
		DashboardLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "dashboard_loads_total",
			Help:      "Joint dashboard loads by resulting status.",
		}, []string{"status"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "snapshots_published_total",
			Help:      "Dataset snapshots written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publish attempts.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "riverflow",
			Name:      "refresher_running",
			Help:      "1 when the snapshot refresher is active, 0 when shut down.",
		}),
		PredictRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "predict_requests_total",
			Help:      "Prediction API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		PredictAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "riverflow",
			Name:      "predict_api_duration_seconds",
			Help:      "Prediction API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		PredictCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riverflow",
			Name:      "predict_cache_total",
			Help:      "Prediction cache lookups by result.",
		}, []string{"result"}),
	}
}
