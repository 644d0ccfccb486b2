// Package relations builds relation maps for catalog articles, with
// memoization, metrics and batch fan-out.
package relations

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dd0wney/biocatalog/pkg/catalog"
	"github.com/dd0wney/biocatalog/pkg/config"
	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/metrics"
	"github.com/dd0wney/biocatalog/pkg/visualization"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Options narrows the related set of one relation map
type Options struct {
	MinSimilarity float64 // drop matches below this score; input order is kept
	MaxRelated    int     // keep at most this many matches; 0 keeps all
	Seed          string  // jitter seed; defaults to the article id
}

// ServiceConfig wires a Service
type ServiceConfig struct {
	Layout  visualization.Layout // nil selects the default radial layout
	Cache   config.CacheConfig
	Workers int
	Logger  logging.Logger
	Metrics *metrics.Registry // nil disables metrics
}

// Service computes relation maps for articles in a catalog. Safe for
// concurrent use. Returned maps may be shared with the cache and must be
// treated as read-only.
type Service struct {
	catalog *catalog.Catalog
	layout  visualization.Layout
	cache   *expirable.LRU[uint64, *visualization.RelationMap]
	workers int
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewService creates a service over a loaded catalog
func NewService(cat *catalog.Catalog, cfg ServiceConfig) *Service {
	s := &Service{
		catalog: cat,
		layout:  cfg.Layout,
		workers: cfg.Workers,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if s.layout == nil {
		s.layout = visualization.NewRadialLayout(nil)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.With(logging.Component("relations"))
	if cfg.Cache.Size > 0 {
		s.cache = expirable.NewLRU[uint64, *visualization.RelationMap](cfg.Cache.Size, nil, cfg.Cache.TTL)
	}
	return s
}

// Catalog returns the underlying catalog
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// RelationMap lays out the datasets related to one article
func (s *Service) RelationMap(ctx context.Context, articleID string, opts Options) (*visualization.RelationMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.catalog.Entry(articleID)
	if err != nil {
		return nil, err
	}

	related := selectRelated(entry.OSDMatches, opts)
	seed := opts.Seed
	if seed == "" {
		seed = entry.ArticleID
	}

	key := cacheKey(entry.ArticleID, seed, related)
	if s.cache != nil {
		cached, ok := s.cache.Get(key)
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(ok, s.cache.Len())
		}
		if ok {
			return cached, nil
		}
	}

	start := time.Now()
	result := s.layout.ComputeLayout(catalog.Focus(entry), related, seed)
	duration := time.Since(start)

	s.observe(result, duration)

	if s.cache != nil {
		s.cache.Add(key, result)
	}
	return result, nil
}

func (s *Service) observe(m *visualization.RelationMap, duration time.Duration) {
	counts := make(map[string]int, visualization.BucketCount)
	for _, p := range m.Positions {
		counts[p.Bucket.String()]++
	}

	if s.metrics != nil {
		d := m.Diagnostics
		s.metrics.RecordLayout(len(m.Positions), d.Iterations, d.ResidualOverlaps, d.Converged, counts, duration)
	}

	fields := []logging.Field{
		logging.ArticleID(m.Focus.ID),
		logging.Seed(m.Seed),
		logging.Count(len(m.Positions)),
		logging.Int("iterations", m.Diagnostics.Iterations),
		logging.Latency(duration),
	}
	if m.Coincident() {
		s.logger.Warn("relation map has coincident positions", fields...)
	}
	if !m.Diagnostics.Converged {
		s.logger.Warn("relation map did not converge",
			append(fields, logging.Int("residual_overlaps", m.Diagnostics.ResidualOverlaps))...)
		return
	}
	s.logger.Debug("relation map computed", fields...)
}

// selectRelated applies the options to an entry's matches, keeping
// dataset order
func selectRelated(matches []catalog.Match, opts Options) []visualization.RelatedEntity {
	kept := matches
	if opts.MinSimilarity > 0 {
		kept = make([]catalog.Match, 0, len(matches))
		for _, m := range matches {
			if m.Similarity >= opts.MinSimilarity {
				kept = append(kept, m)
			}
		}
	}
	return catalog.RelatedFrom(catalog.MatchEntry{OSDMatches: kept}, opts.MaxRelated)
}

// cacheKey hashes everything that determines a layout for a fixed config
func cacheKey(articleID, seed string, related []visualization.RelatedEntity) uint64 {
	d := xxhash.New()
	d.WriteString(articleID)
	d.Write([]byte{0})
	d.WriteString(seed)
	d.Write([]byte{0})

	var buf [8]byte
	for _, r := range related {
		d.WriteString(r.ID)
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(r.Similarity))
		d.Write(buf[:])
	}
	return d.Sum64()
}

// String describes the service for logs
func (s *Service) String() string {
	cache := "off"
	if s.cache != nil {
		cache = fmt.Sprintf("%d entries", s.cache.Len())
	}
	return fmt.Sprintf("relations.Service{articles: %d, cache: %s}", s.catalog.Len(), cache)
}
