package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset sources. DataSource is either an http(s) base URL or a local
	// directory; the CSV paths are resolved against it.
	DataSource        string
	DataFetchTimeout  time.Duration
	WeatherCSVPath    string
	FloodCSVPath      string
	HypsometryCSVPath string
	FloodRecordCap    int // 0 disables the cap
	FloodScatterCap   int // per class; 0 disables the cap

	// Prediction service.
	PredictAPIBase   string
	PredictAPIKey    string
	PredictTimeout   time.Duration
	PredictCacheSize int
	PredictCacheTTL  time.Duration

	// Snapshot publishing.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaSinkTopic  string
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("DATA_FETCH_TIMEOUT", "30s", true)
	if err != nil {
		return nil, err
	}
	predictTimeout, err := parseDuration("PREDICT_TIMEOUT", "10s", false)
	if err != nil {
		return nil, err
	}
	predictCacheTTL, err := parseDuration("PREDICT_CACHE_TTL", "10m", true)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "5m", false)
	if err != nil {
		return nil, err
	}

	floodCap, err := parseNonNegativeInt("FLOOD_RECORD_CAP", 0)
	if err != nil {
		return nil, err
	}
	scatterCap, err := parseNonNegativeInt("FLOOD_SCATTER_CAP", 2000)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataSource:        sharedcfg.EnvOrDefault("DATA_SOURCE", "./public"),
		DataFetchTimeout:  fetchTimeout,
		WeatherCSVPath:    sharedcfg.EnvOrDefault("WEATHER_CSV_PATH", "/data/delhi_monthly_weather_2000_2024.csv"),
		FloodCSVPath:      sharedcfg.EnvOrDefault("FLOOD_CSV_PATH", "/data/flood_risk_dataset_india.csv"),
		HypsometryCSVPath: sharedcfg.EnvOrDefault("HYPSOMETRY_CSV_PATH", "/data/RGI2000-v7.0-G-14_south_asia_west-hypsometry.csv"),
		FloodRecordCap:    floodCap,
		FloodScatterCap:   scatterCap,

		PredictAPIBase:   sharedcfg.EnvOrDefault("PREDICT_API_BASE", "http://127.0.0.1:8000"),
		PredictAPIKey:    sharedcfg.EnvOrDefault("PREDICT_API_KEY", "changeme"),
		PredictTimeout:   predictTimeout,
		PredictCacheSize: parsePredictCacheSize(),
		PredictCacheTTL:  predictCacheTTL,

		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    brokers,
		KafkaSinkTopic:  sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "riverflow-datasets"),
		RefreshInterval: refreshInterval,
	}

	if cfg.DataSource == "" {
		return nil, errors.New("DATA_SOURCE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// parseDuration reads a duration variable. allowZero permits "0" to mean
// "no limit".
func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parsePredictCacheSize() int {
	if s := os.Getenv("PREDICT_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
