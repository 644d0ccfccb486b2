package main

import (
	"errors"

	"github.com/dd0wney/biocatalog/pkg/relations"
	"github.com/spf13/cobra"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		dataset   string
		articleID string
		output    string
		opts      relations.Options
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the relation map of one article",
		RunE: func(cmd *cobra.Command, args []string) error {
			if articleID == "" {
				return errors.New("--article is required")
			}
			ctx := cmd.Context()

			cat, err := a.loadCatalog(ctx, dataset)
			if err != nil {
				return err
			}

			layout, err := a.cfg.NewLayout()
			if err != nil {
				return err
			}

			svc := relations.NewService(cat, relations.ServiceConfig{
				Layout:  layout,
				Logger:  a.logger,
				Metrics: a.metrics,
			})
			m, err := svc.RelationMap(ctx, articleID, opts)
			if err != nil {
				return err
			}
			data, err := m.ExportJSON()
			if err != nil {
				return err
			}
			return writeOutput(a.out, output, data)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "all_matches.json", "catalog source (path, s3://bucket/key or postgres:// DSN)")
	cmd.Flags().StringVar(&articleID, "article", "", "focus article id")
	cmd.Flags().StringVar(&output, "output", "", "write JSON here instead of stdout")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "jitter seed (default: the article id)")
	cmd.Flags().Float64Var(&opts.MinSimilarity, "min-similarity", 0, "drop matches below this score")
	cmd.Flags().IntVar(&opts.MaxRelated, "max-related", 0, "keep at most this many matches (0 keeps all)")
	return cmd
}
