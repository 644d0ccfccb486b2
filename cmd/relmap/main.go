// Command relmap computes relation maps for a biological-research catalog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/biocatalog/pkg/catalog"
	"github.com/dd0wney/biocatalog/pkg/config"
	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/metrics"
	"github.com/spf13/cobra"
)

// app holds state shared by every subcommand
type app struct {
	out io.Writer

	logLevel   logging.Level
	preset     string
	configPath string
	s3Region   string
	s3Endpoint string

	logger  logging.Logger
	cfg     *config.Config
	metrics *metrics.Registry
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, logLevel: logging.ParseLevel(os.Getenv("LOG_LEVEL"))}

	root := &cobra.Command{
		Use:           "relmap",
		Short:         "Lay out datasets related to catalog articles on similarity orbits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = logging.NewJSONLogger(errOut, a.logLevel)
			logging.SetDefaultLogger(a.logger)
			a.metrics = metrics.NewRegistry()

			var err error
			if a.configPath != "" {
				a.cfg, err = config.Load(a.configPath, a.preset)
			} else {
				a.cfg, err = config.FromPreset(a.preset)
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.logger.Debug("config resolved",
				logging.String("preset", a.cfg.Preset), logging.Path(a.configPath))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.Var(&a.logLevel, "log-level", "log level (debug, info, warn, error)")
	flags.StringVar(&a.preset, "preset", config.DefaultPreset, "layout preset")
	flags.StringVar(&a.configPath, "config", "", "YAML or TOML config file")
	flags.StringVar(&a.s3Region, "s3-region", os.Getenv("AWS_REGION"), "region for s3:// datasets")
	flags.StringVar(&a.s3Endpoint, "s3-endpoint", "", "custom S3-compatible endpoint")

	root.AddCommand(
		newLayoutCmd(a),
		newBatchCmd(a),
		newStatsCmd(a),
		newMatchesCmd(a),
		newPresetsCmd(a),
		newConvertCmd(a),
		newSchemaCmd(a),
	)
	return root
}

// loadCatalog opens and indexes the dataset named by uri
func (a *app) loadCatalog(ctx context.Context, uri string) (*catalog.Catalog, error) {
	src, err := catalog.OpenSource(ctx, uri, catalog.SourceOptions{
		S3Region:   a.s3Region,
		S3Endpoint: a.s3Endpoint,
		Logger:     a.logger,
	})
	if err != nil {
		return nil, err
	}
	if closer, ok := src.(interface{ Close() }); ok {
		defer closer.Close()
	}
	return catalog.Load(ctx, src, a.logger, a.metrics)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
