package visualization

import (
	"math"
)

// FallbackStats stand in for an empty similarity list
var FallbackStats = DistributionStats{Mean: 0.5, StdDev: 0.2, Min: 0, Max: 1}

// ComputeDistribution returns mean, population standard deviation, min and
// max of the given scores. Scores are clamped to [0, 1] first.
func ComputeDistribution(similarities []float64) DistributionStats {
	if len(similarities) == 0 {
		return FallbackStats
	}

	n := float64(len(similarities))
	sum := 0.0
	minS, maxS := math.Inf(1), math.Inf(-1)
	for _, s := range similarities {
		s = ClampSimilarity(s)
		sum += s
		minS = math.Min(minS, s)
		maxS = math.Max(maxS, s)
	}
	mean := sum / n

	variance := 0.0
	for _, s := range similarities {
		d := ClampSimilarity(s) - mean
		variance += d * d
	}
	variance /= n

	return DistributionStats{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    minS,
		Max:    maxS,
	}
}
