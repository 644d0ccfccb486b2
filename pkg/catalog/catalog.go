package catalog

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/metrics"
	"github.com/dd0wney/biocatalog/pkg/validation"
)

// Catalog is an immutable, indexed set of match entries. Safe for
// concurrent reads.
type Catalog struct {
	entries map[string]MatchEntry
	order   []string // article ids in load order
	report  LoadReport
}

// New validates and indexes entries. An entry without a valid article id
// fails the whole build with ErrInvalidRecord. Within an entry, matches
// without an osd_id are dropped and repeated osd_ids collapse to the
// highest-scoring match. A repeated article id keeps the first entry.
func New(entries []MatchEntry, logger logging.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c := &Catalog{
		entries: make(map[string]MatchEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}

	for i, entry := range entries {
		if err := validation.Struct(entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d (%q): %v", ErrInvalidRecord, i, entry.ArticleID, err)
		}
		if _, dup := c.entries[entry.ArticleID]; dup {
			c.report.DuplicateArticles++
			logger.Warn("duplicate article entry ignored", logging.ArticleID(entry.ArticleID))
			continue
		}

		entry.OSDMatches = c.cleanMatches(entry.ArticleID, entry.OSDMatches, logger)
		c.entries[entry.ArticleID] = entry
		c.order = append(c.order, entry.ArticleID)
		c.report.Matches += len(entry.OSDMatches)
	}

	c.report.Entries = len(c.order)
	return c, nil
}

func (c *Catalog) cleanMatches(articleID string, matches []Match, logger logging.Logger) []Match {
	cleaned := make([]Match, 0, len(matches))
	seen := make(map[string]int, len(matches))

	for _, m := range matches {
		if m.OSDID == "" {
			c.report.MissingOSDID++
			logger.Debug("match without osd_id dropped", logging.ArticleID(articleID))
			continue
		}
		if m.Similarity < 0 || m.Similarity > 1 || math.IsNaN(m.Similarity) {
			c.report.OutOfRange++
			logger.Warn("similarity outside [0, 1]",
				logging.ArticleID(articleID), logging.OSDID(m.OSDID), logging.Similarity(m.Similarity))
		}

		if i, ok := seen[m.OSDID]; ok {
			c.report.CollapsedDuplicates++
			if m.Similarity > cleaned[i].Similarity {
				cleaned[i] = m
			}
			continue
		}
		seen[m.OSDID] = len(cleaned)
		cleaned = append(cleaned, m)
	}
	return cleaned
}

// Load reads a source, builds the catalog and records load metrics.
// A nil registry skips metrics.
func Load(ctx context.Context, src Source, logger logging.Logger, reg *metrics.Registry) (*Catalog, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("catalog"), logging.Source(src.Name()))

	start := time.Now()
	c, err := load(ctx, src, logger)
	duration := time.Since(start)

	if reg != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		reg.RecordCatalogLoad(src.Type(), status, duration)
	}
	if err != nil {
		logger.Error("catalog load failed", logging.Error(err), logging.Latency(duration))
		return nil, err
	}

	report := c.Report()
	if reg != nil {
		reg.SetCatalogSize(report.Entries, report.Matches)
		reg.RecordRejectedRecords("missing_osd_id", report.MissingOSDID)
		reg.RecordRejectedRecords("duplicate_osd_id", report.CollapsedDuplicates)
		reg.RecordRejectedRecords("duplicate_article", report.DuplicateArticles)
		reg.RecordRejectedRecords("out_of_range", report.OutOfRange)
	}
	logger.Info("catalog loaded",
		logging.Count(report.Entries),
		logging.Int("matches", report.Matches),
		logging.Int("dropped", report.MissingOSDID+report.CollapsedDuplicates+report.DuplicateArticles),
		logging.Int("out_of_range", report.OutOfRange),
		logging.Latency(duration))

	return c, nil
}

func load(ctx context.Context, src Source, logger logging.Logger) (*Catalog, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return New(entries, logger)
}

// Entry returns the entry for an article
func (c *Catalog) Entry(articleID string) (MatchEntry, error) {
	entry, ok := c.entries[articleID]
	if !ok {
		return MatchEntry{}, fmt.Errorf("%w: %s", ErrArticleNotFound, articleID)
	}
	return entry, nil
}

// Articles returns every article id in sorted order
func (c *Catalog) Articles() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	sort.Strings(ids)
	return ids
}

// Entries returns copies of every entry in load order
func (c *Catalog) Entries() []MatchEntry {
	out := make([]MatchEntry, len(c.order))
	for i, id := range c.order {
		out[i] = c.entries[id]
		out[i].OSDMatches = slices.Clone(out[i].OSDMatches)
	}
	return out
}

// Len returns the number of articles
func (c *Catalog) Len() int {
	return len(c.order)
}

// Report returns what indexing dropped or corrected
func (c *Catalog) Report() LoadReport {
	return c.report
}
