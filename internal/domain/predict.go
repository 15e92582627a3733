package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidInput marks a prediction request rejected before it was sent.
var ErrInvalidInput = errors.New("invalid prediction input")

// Season is the hydrological season a prediction is made for.
type Season string

const (
	SeasonWinter      Season = "winter"
	SeasonSummer      Season = "summer"
	SeasonMonsoon     Season = "monsoon"
	SeasonPostMonsoon Season = "post_monsoon"
)

// Seasons lists the seasons accepted by the prediction service.
var Seasons = []Season{SeasonWinter, SeasonSummer, SeasonMonsoon, SeasonPostMonsoon}

// ParseSeason validates a season name.
func ParseSeason(s string) (Season, error) {
	for _, season := range Seasons {
		if string(season) == s {
			return season, nil
		}
	}
	return "", fmt.Errorf("%w: season %q is not one of winter, summer, monsoon, post_monsoon", ErrInvalidInput, s)
}

// PredictInput is the feature vector sent to the discharge model.
type PredictInput struct {
	Year         int     `json:"year"`
	Season       Season  `json:"season"`
	Rain         float64 `json:"rain"`          // mm
	Temp         float64 `json:"temp"`          // °C
	LagDischarge float64 `json:"lag_discharge"` // previous-season discharge, m³/s
}

// Validate rejects inputs the prediction service would refuse.
func (in PredictInput) Validate() error {
	if _, err := ParseSeason(string(in.Season)); err != nil {
		return err
	}
	if in.Year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidInput, in.Year)
	}
	return nil
}

// PredictOutput is the model's discharge estimate in m³/s.
type PredictOutput struct {
	DischargePred float64 `json:"discharge_pred"`
}

// ModelHealth is the prediction service's health report.
type ModelHealth struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ModelMetrics are the hold-out error metrics of the trained model.
type ModelMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
}

// Predictor produces discharge predictions.
type Predictor interface {
	Predict(ctx context.Context, in PredictInput) (PredictOutput, error)
}
