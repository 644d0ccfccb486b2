package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/biocatalog/pkg/validation"
)

const (
	indexSpan     = 0.55 // Share of band width covered by the index fan-out
	hashSpan      = 1.0 / 12
	crowdingRatio = 0.7 // Extra jitter for buckets holding more than crowdingCount entities
	crowdingCount = 4
)

// NodeSize returns the rendered circle diameter for a similarity score
func (c *LayoutConfig) NodeSize(s float64) float64 {
	return c.NodeSizeBase + c.NodeSizeBoost*math.Pow(ClampSimilarity(s), c.NodeSizeExponent)
}

// orbitRadius maps a score to a radius inside its bucket's band. Higher
// scores within a bucket ease toward the inner edge. Three bounded offsets
// keep equal scores from landing on the same ring: one from the entity's
// index in the bucket, one derived from the score itself, and seeded jitter
// when rnd is non-nil.
func (c *LayoutConfig) orbitRadius(s float64, b Bucket, band Band, index, total int, rnd *rand.Rand) float64 {
	width := band.Width()
	t := c.Thresholds.normalizeInBucket(s, b)
	eased := 1 - math.Pow(t, c.EasingExponent)
	base := band.Min + width*eased

	indexOffset := 0.0
	if c.IndexModulus > 1 {
		indexOffset = float64(index%c.IndexModulus) / float64(c.IndexModulus-1) * indexSpan * width
	}

	_, frac := math.Modf(s * 1000)
	hashOffset := frac * hashSpan * width

	jitter := 0.0
	if rnd != nil && c.JitterMagnitude > 0 {
		jitter = (rnd.Float64() - 0.5) * width * c.JitterMagnitude
		if total > crowdingCount {
			jitter += (rnd.Float64() - 0.5) * width * c.JitterMagnitude * crowdingRatio
		}
	}

	return validation.ClampFloat(base+indexOffset+hashOffset+jitter, band.Min, band.Max)
}
