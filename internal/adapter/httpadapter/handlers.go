package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxPredictBody = 1 << 20

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	records, err := s.datasets.LoadWeather(r.Context())
	s.writeDataset(w, domain.DatasetWeather, records, err)
}

func (s *Server) handleFlood(w http.ResponseWriter, r *http.Request) {
	records, err := s.datasets.LoadFlood(r.Context())
	s.writeDataset(w, domain.DatasetFlood, records, err)
}

func (s *Server) handleFloodBySoil(w http.ResponseWriter, r *http.Request) {
	counts, err := s.datasets.LoadFloodBySoil(r.Context())
	s.writeDataset(w, domain.DatasetFloodBySoil, counts, err)
}

func (s *Server) handleFloodScatter(w http.ResponseWriter, r *http.Request) {
	scatter, err := s.datasets.LoadFloodScatter(r.Context())
	s.writeDataset(w, domain.DatasetFlood, scatter, err)
}

func (s *Server) handleHypsometry(w http.ResponseWriter, r *http.Request) {
	curve, err := s.datasets.LoadHypsometry(r.Context())
	s.writeDataset(w, domain.DatasetHypsometry, curve, err)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.datasets.LoadDashboard(r.Context())
	status := http.StatusOK
	if d.Status == domain.StatusFailed {
		status = http.StatusBadGateway
	}
	sharedobs.WriteJSON(w, status, d)
}

func (s *Server) writeDataset(w http.ResponseWriter, dataset domain.Dataset, v any, err error) {
	if err != nil {
		s.logger.Warn("dataset request failed", "dataset", dataset, "error", err)
		sharedobs.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"status": string(domain.StatusFailed),
			"error":  domain.NewLoadError(err).Error(),
		})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		writeError(w, http.StatusNotFound, "prediction service not configured")
		return
	}

	var in domain.PredictInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.predictor.Predict(r.Context(), in)
	if err != nil {
		s.writeUpstreamError(w, "predict", err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) handleModelHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireModel(w) {
		return
	}
	h, err := s.model.Health(r.Context())
	if err != nil {
		s.writeUpstreamError(w, "health", err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, h)
}

func (s *Server) handleModelPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireModel(w) {
		return
	}
	m, err := s.model.ModelPerformance(r.Context())
	if err != nil {
		s.writeUpstreamError(w, "model-performance", err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handleClimateData(w http.ResponseWriter, r *http.Request) {
	if !s.requireModel(w) {
		return
	}
	rows, err := s.model.ClimateData(r.Context())
	if err != nil {
		s.writeUpstreamError(w, "climate-data", err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, nonNilRows(rows))
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	if !s.requireModel(w) {
		return
	}
	rows, err := s.model.Predictions(r.Context())
	if err != nil {
		s.writeUpstreamError(w, "preds", err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, nonNilRows(rows))
}

func (s *Server) requireModel(w http.ResponseWriter) bool {
	if s.model == nil {
		writeError(w, http.StatusNotFound, "prediction service not configured")
		return false
	}
	return true
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, endpoint string, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Warn("prediction service request failed", "endpoint", endpoint, "error", err)
	writeError(w, http.StatusBadGateway, err.Error())
}

func nonNilRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return []map[string]any{}
	}
	return rows
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
