package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/riverflow-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/riverflow-etl/internal/adapter/kafka"
	"github.com/couchcryptid/riverflow-etl/internal/adapter/predict"
	"github.com/couchcryptid/riverflow-etl/internal/config"
	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
	"github.com/couchcryptid/riverflow-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	if envErr == nil {
		logger.Debug("loaded .env file")
	}

	fetcher := csvtable.NewFetcher(cfg.DataSource, cfg.DataFetchTimeout)
	loader := pipeline.NewLoader(fetcher,
		pipeline.Sources{
			Weather:    cfg.WeatherCSVPath,
			Flood:      cfg.FloodCSVPath,
			Hypsometry: cfg.HypsometryCSVPath,
		},
		pipeline.Options{
			FloodRecordCap:  cfg.FloodRecordCap,
			FloodScatterCap: cfg.FloodScatterCap,
		},
		logger, metrics)
	logger.Info("dataset source configured", "source", cfg.DataSource)

	client := predict.NewClient(cfg.PredictAPIBase, cfg.PredictAPIKey, cfg.PredictTimeout, logger, metrics)
	predictor := predict.NewCachedPredictor(client, cfg.PredictCacheSize, cfg.PredictCacheTTL, metrics)
	logger.Info("prediction service configured", "base", cfg.PredictAPIBase, "cache_size", cfg.PredictCacheSize, "cache_ttl", cfg.PredictCacheTTL)

	srv := httpadapter.NewServer(cfg.HTTPAddr, loader, client, predictor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start snapshot publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher *kafkaadapter.Publisher
	refreshDone := make(chan struct{})
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		refresher := pipeline.NewRefresher(loader, publisher, cfg.RefreshInterval, nil, logger, metrics)
		go func() {
			defer close(refreshDone)
			if err := refresher.Run(ctx); err != nil {
				logger.Error("refresher error", "error", err)
			}
		}()
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSinkTopic, "interval", cfg.RefreshInterval)
	} else {
		close(refreshDone)
		logger.Info("snapshot publishing disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	<-refreshDone
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
