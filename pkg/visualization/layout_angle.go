package visualization

import (
	"math"
	"math/rand/v2"
)

// bucketAngle spreads a bucket's entities evenly around the circle, with
// seeded jitter so neighbouring rings don't line up on the same spokes.
func (c *LayoutConfig) bucketAngle(index, total int, rnd *rand.Rand) float64 {
	if total < 1 {
		total = 1
	}
	angle := float64(index) / float64(total) * 2 * math.Pi
	if rnd != nil {
		angle += (rnd.Float64() - 0.5) * c.AngleJitter
	}
	return angle
}
