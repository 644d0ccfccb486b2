package visualization

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func toRelated(scores []float64) []RelatedEntity {
	related := make([]RelatedEntity, len(scores))
	for i, s := range scores {
		related[i] = RelatedEntity{ID: fmt.Sprintf("osd-%d", i), Similarity: s}
	}
	return related
}

// TestProperty_RadialLayout checks the layout guarantees on random inputs
func TestProperty_RadialLayout(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.MaxSize = 40

	properties := gopter.NewProperties(parameters)
	layout := NewRadialLayout(nil)
	focus := FocusEntity{ID: "PMC-prop"}

	properties.Property("one position per input, in input order", prop.ForAll(
		func(scores []float64, seed string) bool {
			related := toRelated(scores)
			result := layout.ComputeLayout(focus, related, seed)
			if len(result.Positions) != len(related) {
				return false
			}
			for i, p := range result.Positions {
				if p.ID != related[i].ID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.AlphaString(),
	))

	properties.Property("every orbit stays inside its bucket's band", prop.ForAll(
		func(scores []float64, seed string) bool {
			result := layout.ComputeLayout(focus, toRelated(scores), seed)
			for _, p := range result.Positions {
				if p.Bucket != layout.Config().Thresholds.Classify(p.Similarity) {
					return false
				}
				if !result.Band(p.Bucket).Contains(p.Radius) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.AlphaString(),
	))

	properties.Property("closer buckets orbit strictly inside farther ones", prop.ForAll(
		func(scores []float64, seed string) bool {
			result := layout.ComputeLayout(focus, toRelated(scores), seed)
			for _, a := range result.Positions {
				for _, b := range result.Positions {
					if a.Bucket < b.Bucket && !(a.Radius < b.Radius) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.AlphaString(),
	))

	properties.Property("same inputs and seed give the same map", prop.ForAll(
		func(scores []float64, seed string) bool {
			related := toRelated(scores)
			first := layout.ComputeLayout(focus, related, seed)
			second := layout.ComputeLayout(focus, related, seed)
			return reflect.DeepEqual(first, second)
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.AlphaString(),
	))

	properties.Property("bands are ordered and disjoint", prop.ForAll(
		func(mean, std float64) bool {
			cfg := layout.Config()
			bands := cfg.ComputeBands(DistributionStats{Mean: mean, StdDev: std})
			for i := 1; i < BucketCount; i++ {
				if bands[i].Min <= bands[i-1].Max {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 0.5),
	))

	properties.TestingRun(t)
}
