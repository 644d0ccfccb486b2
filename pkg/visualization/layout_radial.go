package visualization

import (
	"errors"
	"math"
	"math/rand/v2"
)

// RadialLayout places related entities on similarity bands around a focus.
// It holds no state between calls and is safe for concurrent use.
type RadialLayout struct {
	config LayoutConfig
}

// NewRadialLayout creates a new radial layout. A nil config selects the
// default preset; zero structural fields are filled from it.
func NewRadialLayout(config *LayoutConfig) *RadialLayout {
	if config == nil {
		config = DefaultLayoutConfig()
	}
	return &RadialLayout{config: config.withDefaults()}
}

// NewValidatedRadialLayout validates config and uses it as given. Zero
// padding and band gap stay zero.
func NewValidatedRadialLayout(config *LayoutConfig) (*RadialLayout, error) {
	if config == nil {
		return nil, errors.New("layout config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RadialLayout{config: *config}, nil
}

// Config returns the effective configuration
func (rl *RadialLayout) Config() LayoutConfig {
	return rl.config
}

// ComputeLayout places every related entity, returning positions in input
// order. An empty seed falls back to the configured seed. The same inputs
// and seed always produce the same map.
func (rl *RadialLayout) ComputeLayout(focus FocusEntity, related []RelatedEntity, seed string) *RelationMap {
	cfg := &rl.config
	if seed == "" {
		seed = cfg.Seed
	}

	sims := make([]float64, len(related))
	for i, e := range related {
		sims[i] = ClampSimilarity(e.Similarity)
	}

	stats := ComputeDistribution(sims)
	bands := cfg.ComputeBands(stats)

	result := &RelationMap{
		Focus:       focus,
		Seed:        seed,
		Positions:   make([]PositionedEntity, 0, len(related)),
		Stats:       stats,
		Bands:       bandMap(bands),
		Diagnostics: Diagnostics{Converged: true},
	}
	if len(related) == 0 {
		return result
	}

	buckets := make([]Bucket, len(related))
	var counts [BucketCount]int
	for i, s := range sims {
		buckets[i] = cfg.Thresholds.Classify(s)
		counts[buckets[i]]++
	}

	var seen [BucketCount]int
	nodes := make([]orbitNode, len(related))
	for i, e := range related {
		b := buckets[i]
		index := seen[b]
		seen[b]++

		var rnd *rand.Rand
		if cfg.JitterMagnitude > 0 {
			rnd = entityRand(seed, e.ID)
		}

		angle := cfg.bucketAngle(index, counts[b], rnd)
		orbit := cfg.orbitRadius(sims[i], b, bands[b], index, counts[b], rnd)
		nodes[i] = newOrbitNode(e.ID, cfg.NodeSize(sims[i])/2, orbit, bands[b], angle)
	}

	iterations, converged := resolveCollisions(nodes, cfg.Padding, cfg.Iterations, seed)
	result.Diagnostics = Diagnostics{
		Iterations:       iterations,
		Converged:        converged,
		ResidualOverlaps: countOverlaps(nodes),
	}

	for i, n := range nodes {
		result.Positions = append(result.Positions, PositionedEntity{
			ID:         related[i].ID,
			Similarity: sims[i],
			Bucket:     buckets[i],
			X:          n.x,
			Y:          n.y,
			Angle:      math.Atan2(n.y, n.x),
			Radius:     n.orbit,
			Size:       n.r * 2,
		})
	}

	return result
}

func bandMap(bands [BucketCount]Band) map[Bucket]Band {
	m := make(map[Bucket]Band, BucketCount)
	for i, band := range bands {
		m[Bucket(i)] = band
	}
	return m
}
