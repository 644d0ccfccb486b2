package main

import (
	"errors"

	"github.com/dd0wney/biocatalog/pkg/relations"
	"github.com/dd0wney/biocatalog/pkg/visualization"
	"github.com/spf13/cobra"
)

type bucketSummary struct {
	Band     visualization.Band `json:"band"`
	Entities int                `json:"entities"`
}

type statsOutput struct {
	ArticleID    string                                 `json:"article_id"`
	Preset       string                                 `json:"preset"`
	Stats        visualization.DistributionStats        `json:"stats"`
	SpreadFactor float64                                `json:"spread_factor"`
	ScaleFactor  float64                                `json:"scale_factor"`
	Buckets      map[visualization.Bucket]bucketSummary `json:"buckets"`
	Diagnostics  visualization.Diagnostics              `json:"diagnostics"`
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		dataset   string
		articleID string
		opts      relations.Options
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the similarity distribution and orbit bands of one article",
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

			cfg := layout.Config()
			out := statsOutput{
				ArticleID:    m.Focus.ID,
				Preset:       a.cfg.Preset,
				Stats:        m.Stats,
				SpreadFactor: cfg.SpreadFactor(m.Stats),
				ScaleFactor:  cfg.ScaleFactor(m.Stats),
				Buckets:      make(map[visualization.Bucket]bucketSummary, visualization.BucketCount),
				Diagnostics:  m.Diagnostics,
			}
			for _, b := range visualization.Buckets {
				out.Buckets[b] = bucketSummary{Band: m.Band(b)}
			}
			for _, p := range m.Positions {
				summary := out.Buckets[p.Bucket]
				summary.Entities++
				out.Buckets[p.Bucket] = summary
			}
			return writeJSON(a.out, "", out)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "all_matches.json", "catalog source")
	cmd.Flags().StringVar(&articleID, "article", "", "article id")
	cmd.Flags().Float64Var(&opts.MinSimilarity, "min-similarity", 0, "drop matches below this score")
	cmd.Flags().IntVar(&opts.MaxRelated, "max-related", 0, "keep at most this many matches (0 keeps all)")
	return cmd
}
