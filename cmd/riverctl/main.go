// Command riverctl loads the river-flow datasets and queries the prediction
// service from the command line.
//
// Usage:
//
//	riverctl load dashboard --source ./public --pretty
//	riverctl validate
//	riverctl predict --year 2024 --season monsoon --rain 120 --temp 6 --lag-discharge 340
//	riverctl model health
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/riverflow-etl/internal/adapter/predict"
	"github.com/couchcryptid/riverflow-etl/internal/config"
	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
	"github.com/couchcryptid/riverflow-etl/internal/observability"
	"github.com/couchcryptid/riverflow-etl/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every subcommand.
type options struct {
	source  string
	pretty  bool
	verbose bool
}

// env is the wiring a subcommand runs against.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "riverctl",
		Short:        "Load river-flow datasets and query the discharge model",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.source, "source", "", "Dataset base URL or directory (overrides DATA_SOURCE)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level to stderr")

	root.AddCommand(
		newLoadCmd(opts),
		newValidateCmd(opts),
		newPredictCmd(opts),
		newModelCmd(opts),
	)
	return root
}

func (o *options) env(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.source != "" {
		cfg.DataSource = o.source
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), level, "text")

	return &env{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetricsWithRegistry(prometheus.NewRegistry()),
	}, nil
}

func (e *env) loader() *pipeline.Loader {
	fetcher := csvtable.NewFetcher(e.cfg.DataSource, e.cfg.DataFetchTimeout)
	return pipeline.NewLoader(fetcher,
		pipeline.Sources{
			Weather:    e.cfg.WeatherCSVPath,
			Flood:      e.cfg.FloodCSVPath,
			Hypsometry: e.cfg.HypsometryCSVPath,
		},
		pipeline.Options{
			FloodRecordCap:  e.cfg.FloodRecordCap,
			FloodScatterCap: e.cfg.FloodScatterCap,
		},
		e.logger, e.metrics)
}

func (e *env) client() *predict.Client {
	return predict.NewClient(e.cfg.PredictAPIBase, e.cfg.PredictAPIKey, e.cfg.PredictTimeout, e.logger, e.metrics)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
