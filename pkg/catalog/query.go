package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dd0wney/biocatalog/pkg/visualization"
)

// Filter returns copies of the entries matching q, in load order. With a
// threshold, each entry keeps only matches at or above it, sorted by
// descending similarity, and MatchesFound is recomputed.
func (c *Catalog) Filter(q Query) []MatchEntry {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	articleID := strings.TrimSpace(q.ArticleID)
	osdID := NormalizeOSDID(q.OSDID)

	var out []MatchEntry
	for _, id := range c.order {
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		if articleID != "" && id != articleID {
			continue
		}

		entry := c.entries[id]
		if text != "" && !strings.Contains(strings.ToLower(entry.ArticleID+" "+entry.ArticleTitle), text) {
			continue
		}
		if osdID != "" && !slices.ContainsFunc(entry.OSDMatches, func(m Match) bool { return m.OSDID == osdID }) {
			continue
		}

		entry.OSDMatches = slices.Clone(entry.OSDMatches)
		if q.Threshold > 0 {
			entry.OSDMatches = ApplyThreshold(entry.OSDMatches, q.Threshold)
			entry.MatchesFound = len(entry.OSDMatches)
		}
		out = append(out, entry)
	}
	return out
}

// ApplyThreshold keeps matches with similarity >= threshold, highest first.
// Ties keep their input order.
func ApplyThreshold(matches []Match, threshold float64) []Match {
	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Similarity >= threshold {
			kept = append(kept, m)
		}
	}
	slices.SortStableFunc(kept, func(a, b Match) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return kept
}

// NormalizeOSDID adds the "OSD-" prefix to bare dataset numbers
func NormalizeOSDID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "OSD-") {
		return id
	}
	return "OSD-" + id
}

// Rating maps a similarity to 1..3 dots
func Rating(similarity float64) int {
	switch {
	case similarity > 0.75:
		return 3
	case similarity > 0.65:
		return 2
	default:
		return 1
	}
}

// RelatedFrom converts an entry's matches into layout input, keeping
// dataset order. maxRelated <= 0 keeps every match.
func RelatedFrom(entry MatchEntry, maxRelated int) []visualization.RelatedEntity {
	matches := entry.OSDMatches
	if maxRelated > 0 && len(matches) > maxRelated {
		matches = matches[:maxRelated]
	}

	related := make([]visualization.RelatedEntity, len(matches))
	for i, m := range matches {
		related[i] = visualization.RelatedEntity{ID: m.OSDID, Similarity: m.Similarity}
	}
	return related
}

// Focus returns the layout focus for an entry
func Focus(entry MatchEntry) visualization.FocusEntity {
	return visualization.FocusEntity{ID: entry.ArticleID, Title: entry.ArticleTitle}
}
