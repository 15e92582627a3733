package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "./public", cfg.DataSource)
	assert.Equal(t, 30*time.Second, cfg.DataFetchTimeout)
	assert.Equal(t, "/data/delhi_monthly_weather_2000_2024.csv", cfg.WeatherCSVPath)
	assert.Equal(t, "/data/flood_risk_dataset_india.csv", cfg.FloodCSVPath)
	assert.Equal(t, "/data/RGI2000-v7.0-G-14_south_asia_west-hypsometry.csv", cfg.HypsometryCSVPath)
	assert.Zero(t, cfg.FloodRecordCap)
	assert.Equal(t, 2000, cfg.FloodScatterCap)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.PredictAPIBase)
	assert.Equal(t, "changeme", cfg.PredictAPIKey)
	assert.Equal(t, 10*time.Second, cfg.PredictTimeout)
	assert.Equal(t, 256, cfg.PredictCacheSize)
	assert.Equal(t, 10*time.Minute, cfg.PredictCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "riverflow-datasets", cfg.KafkaSinkTopic)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_SOURCE", "http://localhost:5173")
	t.Setenv("DATA_FETCH_TIMEOUT", "0s")
	t.Setenv("WEATHER_CSV_PATH", "/w.csv")
	t.Setenv("FLOOD_CSV_PATH", "/f.csv")
	t.Setenv("HYPSOMETRY_CSV_PATH", "/h.csv")
	t.Setenv("FLOOD_RECORD_CAP", "3000")
	t.Setenv("FLOOD_SCATTER_CAP", "0")
	t.Setenv("PREDICT_API_BASE", "http://model:8000")
	t.Setenv("PREDICT_API_KEY", "secret")
	t.Setenv("PREDICT_TIMEOUT", "2s")
	t.Setenv("PREDICT_CACHE_SIZE", "16")
	t.Setenv("PREDICT_CACHE_TTL", "0s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("REFRESH_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:5173", cfg.DataSource)
	assert.Zero(t, cfg.DataFetchTimeout)
	assert.Equal(t, "/w.csv", cfg.WeatherCSVPath)
	assert.Equal(t, "/f.csv", cfg.FloodCSVPath)
	assert.Equal(t, "/h.csv", cfg.HypsometryCSVPath)
	assert.Equal(t, 3000, cfg.FloodRecordCap)
	assert.Zero(t, cfg.FloodScatterCap)
	assert.Equal(t, "http://model:8000", cfg.PredictAPIBase)
	assert.Equal(t, "secret", cfg.PredictAPIKey)
	assert.Equal(t, 2*time.Second, cfg.PredictTimeout)
	assert.Equal(t, 16, cfg.PredictCacheSize)
	assert.Zero(t, cfg.PredictCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	t.Setenv("DATA_FETCH_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_FETCH_TIMEOUT")
}

func TestLoad_ZeroRefreshIntervalRejected(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidPredictTimeout(t *testing.T) {
	t.Setenv("PREDICT_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICT_TIMEOUT")
}

func TestLoad_InvalidPredictCacheTTL(t *testing.T) {
	t.Setenv("PREDICT_CACHE_TTL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREDICT_CACHE_TTL")
}

func TestLoad_InvalidFloodRecordCap(t *testing.T) {
	t.Setenv("FLOOD_RECORD_CAP", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOOD_RECORD_CAP")
}

func TestLoad_InvalidPredictCacheSizeFallsBack(t *testing.T) {
	t.Setenv("PREDICT_CACHE_SIZE", "zero")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.PredictCacheSize)
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", defaultBroker)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", defaultBroker)
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
