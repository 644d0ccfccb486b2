package visualization

import (
	"fmt"
	"math"
	"sort"

	"github.com/dd0wney/biocatalog/pkg/validation"
)

// DefaultSeed is used when neither the call nor the config names a seed
const DefaultSeed = "relmap"

// DefaultThresholds are the bucket cut points used by the default preset
var DefaultThresholds = Thresholds{Closest: 0.72, Near: 0.60, Far: 0.40}

// DefaultBaseBands leave enough headroom in the closest band for a few
// dozen equally similar entities after the spread factor is applied.
var DefaultBaseBands = [BucketCount]Band{
	{Min: 120, Max: 220},
	{Min: 260, Max: 360},
	{Min: 420, Max: 540},
	{Min: 600, Max: 740},
}

// DefaultLayoutConfig returns the default preset
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		Thresholds:       DefaultThresholds,
		BaseBands:        DefaultBaseBands,
		BandGap:          16,
		Padding:          6,
		Iterations:       140,
		EasingExponent:   2,
		IndexModulus:     11,
		JitterMagnitude:  0.35,
		AngleJitter:      1.2,
		NodeSizeBase:     58,
		NodeSizeBoost:    68,
		NodeSizeExponent: 0.85,
		SpreadCeiling:    1.8,
		SpreadFloor:      1.2,
		LowMeanCutoff:    0.5,
		LowMeanScale:     1.4,
		HighMeanScale:    1.1,
		Seed:             DefaultSeed,
	}
}

var presets = map[string]func() *LayoutConfig{
	"default": DefaultLayoutConfig,
	// Bands from the first relation modal. They overlap once spread is
	// applied, so the band cascade does most of the separating.
	"modal": func() *LayoutConfig {
		cfg := DefaultLayoutConfig()
		cfg.BaseBands = [BucketCount]Band{
			{Min: 80, Max: 140},
			{Min: 160, Max: 230},
			{Min: 560, Max: 740},
			{Min: 875, Max: 1060},
		}
		return cfg
	},
	"strict": func() *LayoutConfig {
		cfg := DefaultLayoutConfig()
		cfg.Thresholds = Thresholds{Closest: 0.75, Near: 0.65, Far: 0.40}
		return cfg
	},
}

// Preset returns a fresh copy of a named preset
func Preset(name string) (*LayoutConfig, bool) {
	fn, ok := presets[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// PresetNames returns the known preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withDefaults fills zero structural fields from the default preset.
// Jitter fields are taken as given so that zero disables randomness.
func (c LayoutConfig) withDefaults() LayoutConfig {
	def := DefaultLayoutConfig()
	if c.Thresholds == (Thresholds{}) {
		c.Thresholds = def.Thresholds
	}
	if c.BaseBands == ([BucketCount]Band{}) {
		c.BaseBands = def.BaseBands
	}
	if c.BandGap == 0 {
		c.BandGap = def.BandGap
	}
	if c.Padding == 0 {
		c.Padding = def.Padding
	}
	if c.Iterations == 0 {
		c.Iterations = def.Iterations
	}
	if c.EasingExponent == 0 {
		c.EasingExponent = def.EasingExponent
	}
	if c.IndexModulus == 0 {
		c.IndexModulus = def.IndexModulus
	}
	if c.NodeSizeBase == 0 {
		c.NodeSizeBase = def.NodeSizeBase
	}
	if c.NodeSizeBoost == 0 {
		c.NodeSizeBoost = def.NodeSizeBoost
	}
	if c.NodeSizeExponent == 0 {
		c.NodeSizeExponent = def.NodeSizeExponent
	}
	if c.SpreadCeiling == 0 {
		c.SpreadCeiling = def.SpreadCeiling
	}
	if c.SpreadFloor == 0 {
		c.SpreadFloor = def.SpreadFloor
	}
	if c.LowMeanCutoff == 0 {
		c.LowMeanCutoff = def.LowMeanCutoff
	}
	if c.LowMeanScale == 0 {
		c.LowMeanScale = def.LowMeanScale
	}
	if c.HighMeanScale == 0 {
		c.HighMeanScale = def.HighMeanScale
	}
	if c.Seed == "" {
		c.Seed = def.Seed
	}
	return c
}

// Validate checks the config for values that would break band ordering
// or the collision pass.
func (c *LayoutConfig) Validate() error {
	cv := validation.NewConfigValidator("LayoutConfig")

	th := c.Thresholds
	cv.RangeFloat("Thresholds.Closest", th.Closest, 0, 1).
		RangeFloat("Thresholds.Near", th.Near, 0, 1).
		RangeFloat("Thresholds.Far", th.Far, 0, 1).
		Custom("Thresholds", func() error {
			if !(th.Closest > th.Near && th.Near > th.Far) {
				return fmt.Errorf("thresholds must be strictly decreasing, got %.3f/%.3f/%.3f", th.Closest, th.Near, th.Far)
			}
			return nil
		})

	for i, band := range c.BaseBands {
		field := fmt.Sprintf("BaseBands[%s]", Bucket(i))
		cv.NonNegativeFloat(field+".Min", band.Min)
		cv.Custom(field, func() error {
			if band.Max <= band.Min {
				return fmt.Errorf("max %.1f must exceed min %.1f", band.Max, band.Min)
			}
			if i > 0 && band.Min < c.BaseBands[i-1].Max {
				return fmt.Errorf("min %.1f overlaps previous band max %.1f", band.Min, c.BaseBands[i-1].Max)
			}
			return nil
		})
	}

	cv.NonNegativeFloat("BandGap", c.BandGap).
		NonNegativeFloat("Padding", c.Padding).
		Positive("Iterations", c.Iterations).
		MinFloat("EasingExponent", c.EasingExponent, 1).
		Positive("IndexModulus", c.IndexModulus).
		RangeFloat("JitterMagnitude", c.JitterMagnitude, 0, 1).
		RangeFloat("AngleJitter", c.AngleJitter, 0, 2*math.Pi).
		PositiveFloat("NodeSizeBase", c.NodeSizeBase).
		NonNegativeFloat("NodeSizeBoost", c.NodeSizeBoost).
		PositiveFloat("NodeSizeExponent", c.NodeSizeExponent).
		MinFloat("SpreadFloor", c.SpreadFloor, 1).
		MinFloat("SpreadCeiling", c.SpreadCeiling, c.SpreadFloor).
		RangeFloat("LowMeanCutoff", c.LowMeanCutoff, 0, 1).
		PositiveFloat("LowMeanScale", c.LowMeanScale).
		PositiveFloat("HighMeanScale", c.HighMeanScale)

	return cv.Validate()
}
