package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
)

// APIError is a non-success response from the prediction service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client talks to the discharge prediction service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a prediction service client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Health reports whether the service is up and its model is loaded.
func (c *Client) Health(ctx context.Context) (domain.ModelHealth, error) {
	var out domain.ModelHealth
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// Predictions returns the model's stored hold-out predictions.
func (c *Client) Predictions(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.do(ctx, http.MethodGet, "/preds", nil, &out)
	return out, err
}

// ClimateData returns the raw climate table the model was trained on.
func (c *Client) ClimateData(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	err := c.do(ctx, http.MethodGet, "/climate-data", nil, &out)
	return out, err
}

// ModelPerformance returns the model's error metrics.
func (c *Client) ModelPerformance(ctx context.Context) (domain.ModelMetrics, error) {
	var out domain.ModelMetrics
	err := c.do(ctx, http.MethodGet, "/model-performance", nil, &out)
	return out, err
}

// Predict requests a discharge estimate. Invalid input is rejected without
// contacting the service.
func (c *Client) Predict(ctx context.Context, in domain.PredictInput) (domain.PredictOutput, error) {
	if err := in.Validate(); err != nil {
		return domain.PredictOutput{}, err
	}
	var out domain.PredictOutput
	err := c.do(ctx, http.MethodPost, "/predict", in, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, payload, out)
	c.metrics.PredictAPIDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.PredictRequests.WithLabelValues(path, "error").Inc()
		c.logger.Warn("prediction API request failed", "endpoint", path, "error", err)
		return err
	}
	c.metrics.PredictRequests.WithLabelValues(path, "success").Inc()
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       errorBody(raw),
		}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorBody compacts a JSON error body and passes anything else through.
func errorBody(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}
