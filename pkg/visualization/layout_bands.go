package visualization

import "math"

// SpreadFactor widens every band's outer edge when scores are concentrated
func (c *LayoutConfig) SpreadFactor(stats DistributionStats) float64 {
	return math.Max(c.SpreadFloor, c.SpreadCeiling-stats.StdDev)
}

// ScaleFactor pushes the whole layout outward when the mean score is low
func (c *LayoutConfig) ScaleFactor(stats DistributionStats) float64 {
	if stats.Mean < c.LowMeanCutoff {
		return c.LowMeanScale
	}
	return c.HighMeanScale
}

// ComputeBands scales the base bands for a distribution. Both edges are
// multiplied by the scale factor and the outer edge also by the spread
// factor. Any band that would then reach into its inner neighbour (plus
// BandGap) is shifted outward whole, so bands stay ordered and disjoint.
func (c *LayoutConfig) ComputeBands(stats DistributionStats) [BucketCount]Band {
	spread := c.SpreadFactor(stats)
	scale := c.ScaleFactor(stats)

	var bands [BucketCount]Band
	for i, base := range c.BaseBands {
		band := Band{
			Min: base.Min * scale,
			Max: base.Max * scale * spread,
		}
		if band.Max <= band.Min {
			band.Max = band.Min + 1
		}
		if i > 0 {
			floor := bands[i-1].Max + c.BandGap
			if band.Min < floor {
				shift := floor - band.Min
				band.Min += shift
				band.Max += shift
			}
		}
		bands[i] = band
	}
	return bands
}
