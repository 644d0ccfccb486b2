package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/relations"
	"github.com/spf13/cobra"
)

// manifest is written next to the per-article maps
type manifest struct {
	relations.BatchReport
	Preset   string   `json:"preset"`
	Articles []string `json:"articles"`
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		dataset     string
		outDir      string
		workers     int
		metricsFile string
		opts        relations.Options
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute relation maps for every article in a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cat, err := a.loadCatalog(ctx, dataset)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}

			layout, err := a.cfg.NewLayout()
			if err != nil {
				return err
			}

			svc := relations.NewService(cat, relations.ServiceConfig{
				Layout:  layout,
				Cache:   a.cfg.Cache,
				Workers: workers,
				Logger:  a.logger,
				Metrics: a.metrics,
			})

			timer := logging.StartTimer(a.logger, "batch output written", logging.Path(outDir))
			maps, report, runErr := svc.LayoutAll(ctx, opts)

			written := make([]string, 0, len(maps))
			for _, m := range maps {
				if m == nil {
					continue
				}
				if err := writeJSON(nil, filepath.Join(outDir, fileName(m.Focus.ID)), m); err != nil {
					return err
				}
				written = append(written, m.Focus.ID)
			}

			if err := writeJSON(nil, filepath.Join(outDir, "manifest.json"), manifest{
				BatchReport: report,
				Preset:      a.cfg.Preset,
				Articles:    written,
			}); err != nil {
				return err
			}

			timer.End(logging.RunID(report.RunID), logging.Count(len(written)))

			if metricsFile != "" {
				a.metrics.UpdateSystemMetrics()
				if err := a.metrics.WriteTextfile(metricsFile); err != nil {
					a.logger.Error("metrics textfile not written", logging.Path(metricsFile), logging.Error(err))
				}
			}
			if runErr != nil {
				return runErr
			}

			fmt.Fprintf(a.out, "%d maps written to %s (converged %d, capped %d, empty %d) run %s\n",
				report.Total, outDir, report.Converged, report.Capped, report.Empty, report.RunID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "all_matches.json", "catalog source (path, s3://bucket/key or postgres:// DSN)")
	cmd.Flags().StringVar(&outDir, "out-dir", "relmaps", "directory for per-article JSON")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel layouts (0: config value, else one per CPU)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	cmd.Flags().Float64Var(&opts.MinSimilarity, "min-similarity", 0, "drop matches below this score")
	cmd.Flags().IntVar(&opts.MaxRelated, "max-related", 0, "keep at most this many matches (0 keeps all)")
	return cmd
}

// fileName maps an article id to a safe file name
func fileName(articleID string) string {
	return strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(articleID) + ".json"
}
