package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Datasets loads the dashboard datasets on demand.
type Datasets interface {
	sharedobs.ReadinessChecker
	LoadWeather(ctx context.Context) ([]domain.WeatherRecord, error)
	LoadFlood(ctx context.Context) ([]domain.FloodRecord, error)
	LoadFloodBySoil(ctx context.Context) ([]domain.SoilFloodCount, error)
	LoadFloodScatter(ctx context.Context) (domain.FloodScatter, error)
	LoadHypsometry(ctx context.Context) (domain.HypsometryCurve, error)
	LoadDashboard(ctx context.Context) domain.Dashboard
}

// Model exposes the prediction service's read endpoints.
type Model interface {
	Health(ctx context.Context) (domain.ModelHealth, error)
	ModelPerformance(ctx context.Context) (domain.ModelMetrics, error)
	ClimateData(ctx context.Context) ([]map[string]any, error)
	Predictions(ctx context.Context) ([]map[string]any, error)
}

// Server exposes the dataset API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	datasets   Datasets
	model      Model
	predictor  domain.Predictor
	logger     *slog.Logger
}

// NewServer creates an HTTP server. model and predictor may be nil, in which
// case the prediction routes answer 404.
func NewServer(addr string, datasets Datasets, model Model, predictor domain.Predictor, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		datasets:  datasets,
		model:     model,
		predictor: predictor,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(datasets))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/datasets/weather", s.handleWeather)
	mux.HandleFunc("GET /api/v1/datasets/flood", s.handleFlood)
	mux.HandleFunc("GET /api/v1/datasets/flood/by-soil", s.handleFloodBySoil)
	mux.HandleFunc("GET /api/v1/datasets/flood/scatter", s.handleFloodScatter)
	mux.HandleFunc("GET /api/v1/datasets/hypsometry", s.handleHypsometry)
	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)

	mux.HandleFunc("POST /api/v1/predict", s.handlePredict)
	mux.HandleFunc("GET /api/v1/model/health", s.handleModelHealth)
	mux.HandleFunc("GET /api/v1/model/performance", s.handleModelPerformance)
	mux.HandleFunc("GET /api/v1/climate-data", s.handleClimateData)
	mux.HandleFunc("GET /api/v1/predictions", s.handlePredictions)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
