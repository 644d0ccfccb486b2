package main

import (
	"github.com/dd0wney/biocatalog/pkg/catalog"
	"github.com/spf13/cobra"
)

type ratedMatch struct {
	catalog.Match
	Rating int `json:"rating"`
}

type ratedEntry struct {
	ArticleID         string       `json:"article_id"`
	ArticleTitle      string       `json:"article_title"`
	TotalOSDsCompared int          `json:"total_osds_compared"`
	MatchesFound      int          `json:"matches_found"`
	OSDMatches        []ratedMatch `json:"osd_matches"`
}

func newMatchesCmd(a *app) *cobra.Command {
	var (
		dataset string
		q       catalog.Query
	)

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List article matches with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog(cmd.Context(), dataset)
			if err != nil {
				return err
			}

			rows := cat.Filter(q)
			out := make([]ratedEntry, len(rows))
			for i, e := range rows {
				out[i] = ratedEntry{
					ArticleID:         e.ArticleID,
					ArticleTitle:      e.ArticleTitle,
					TotalOSDsCompared: e.TotalOSDsCompared,
					MatchesFound:      e.MatchesFound,
					OSDMatches:        make([]ratedMatch, len(e.OSDMatches)),
				}
				for j, m := range e.OSDMatches {
					out[i].OSDMatches[j] = ratedMatch{Match: m, Rating: catalog.Rating(m.Similarity)}
				}
			}
			return writeJSON(a.out, "", out)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "all_matches.json", "catalog source")
	cmd.Flags().StringVar(&q.ArticleID, "article", "", "exact article id")
	cmd.Flags().StringVar(&q.OSDID, "osd", "", "only articles matched to this dataset (OSD-379 or 379)")
	cmd.Flags().StringVar(&q.Text, "q", "", "case-insensitive text over article id and title")
	cmd.Flags().Float64Var(&q.Threshold, "threshold", 0, "keep matches at or above this score, highest first")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum articles (0 for all)")
	return cmd
}
