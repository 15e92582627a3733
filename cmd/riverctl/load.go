package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/riverflow-etl/internal/domain"
	"github.com/couchcryptid/riverflow-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

// loadFunc loads one dataset view.
type loadFunc func(ctx context.Context, l *pipeline.Loader) (any, error)

func newLoadCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a dataset and print it as JSON",
	}

	views := []struct {
		use   string
		short string
		load  loadFunc
	}{
		{"weather", "Monthly Delhi weather sorted by month", func(ctx context.Context, l *pipeline.Loader) (any, error) {
			return l.LoadWeather(ctx)
		}},
		{"flood", "Valid flood-risk observations", func(ctx context.Context, l *pipeline.Loader) (any, error) {
			return l.LoadFlood(ctx)
		}},
		{"flood-by-soil", "Top soil types by flood count", func(ctx context.Context, l *pipeline.Loader) (any, error) {
			return l.LoadFloodBySoil(ctx)
		}},
		{"flood-scatter", "Flood observations split by outcome", func(ctx context.Context, l *pipeline.Loader) (any, error) {
			return l.LoadFloodScatter(ctx)
		}},
		{"hypsometry", "Glacier area by elevation band", func(ctx context.Context, l *pipeline.Loader) (any, error) {
			return l.LoadHypsometry(ctx)
		}},
	}

	for _, v := range views {
		load := v.load
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := opts.env(cmd)
				if err != nil {
					return err
				}
				data, err := load(cmd.Context(), e.loader())
				if err != nil {
					return domain.NewLoadError(err)
				}
				return writeJSON(cmd.OutOrStdout(), data, opts.pretty)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Load every dataset jointly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.env(cmd)
			if err != nil {
				return err
			}
			d := e.loader().LoadDashboard(cmd.Context())
			if err := writeJSON(cmd.OutOrStdout(), d, opts.pretty); err != nil {
				return err
			}
			if d.Status == domain.StatusFailed {
				return errors.New(d.Error)
			}
			return nil
		},
	})

	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report line, kept, and dropped row counts per dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.env(cmd)
			if err != nil {
				return err
			}
			stats, loadErr := e.loader().Validate(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tPATH\tLINES\tKEPT\tDROPPED")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", s.Dataset, s.Path, s.Lines, s.Kept, s.Dropped)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if loadErr != nil {
				return domain.NewLoadError(loadErr)
			}
			return nil
		},
	}
}
