package main

import (
	"context"

	"github.com/couchcryptid/riverflow-etl/internal/adapter/predict"
	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/spf13/cobra"
)

func newPredictCmd(opts *options) *cobra.Command {
	var (
		in     domain.PredictInput
		season string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a discharge prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := domain.ParseSeason(season)
			if err != nil {
				return err
			}
			in.Season = s

			e, err := opts.env(cmd)
			if err != nil {
				return err
			}
			out, err := e.client().Predict(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out, opts.pretty)
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Year, "year", 0, "Prediction year")
	f.StringVar(&season, "season", "", "Season: winter, summer, monsoon, post_monsoon")
	f.Float64Var(&in.Rain, "rain", 0, "Seasonal rainfall (mm)")
	f.Float64Var(&in.Temp, "temp", 0, "Mean temperature (°C)")
	f.Float64Var(&in.LagDischarge, "lag-discharge", 0, "Previous-season discharge (m³/s)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("season")

	return cmd
}

func newModelCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Query the prediction service",
	}

	queries := []struct {
		use   string
		short string
		call  func(ctx context.Context, c *predict.Client) (any, error)
	}{
		{"health", "Service status and whether the model is loaded", func(ctx context.Context, c *predict.Client) (any, error) {
			return c.Health(ctx)
		}},
		{"performance", "Model MAE and RMSE", func(ctx context.Context, c *predict.Client) (any, error) {
			return c.ModelPerformance(ctx)
		}},
		{"climate-data", "Raw climate table used for training", func(ctx context.Context, c *predict.Client) (any, error) {
			return c.ClimateData(ctx)
		}},
		{"predictions", "Stored hold-out predictions", func(ctx context.Context, c *predict.Client) (any, error) {
			return c.Predictions(ctx)
		}},
	}

	for _, q := range queries {
		call := q.call
		cmd.AddCommand(&cobra.Command{
			Use:   q.use,
			Short: q.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := opts.env(cmd)
				if err != nil {
					return err
				}
				v, err := call(cmd.Context(), e.client())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v, opts.pretty)
			},
		})
	}

	return cmd
}
