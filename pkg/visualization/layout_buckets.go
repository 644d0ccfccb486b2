package visualization

import "github.com/dd0wney/biocatalog/pkg/validation"

// ClampSimilarity maps any float onto [0, 1]. NaN becomes 0.
func ClampSimilarity(s float64) float64 {
	return validation.ClampFloat(s, 0, 1)
}

// Classify returns the bucket for a similarity score. Scores equal to a
// threshold land in the higher tier; out-of-range scores are clamped first.
func (th Thresholds) Classify(s float64) Bucket {
	s = ClampSimilarity(s)
	switch {
	case s >= th.Closest:
		return Closest
	case s >= th.Near:
		return Near
	case s >= th.Far:
		return Far
	default:
		return Farthest
	}
}

// Range returns the similarity sub-range [lo, hi) owned by a bucket.
// Closest is closed at 1.
func (th Thresholds) Range(b Bucket) (lo, hi float64) {
	switch b {
	case Closest:
		return th.Closest, 1
	case Near:
		return th.Near, th.Closest
	case Far:
		return th.Far, th.Near
	default:
		return 0, th.Far
	}
}

// normalizeInBucket places s within its bucket's similarity range as t in [0, 1]
func (th Thresholds) normalizeInBucket(s float64, b Bucket) float64 {
	lo, hi := th.Range(b)
	if hi <= lo {
		return 0
	}
	return validation.ClampFloat((s-lo)/(hi-lo), 0, 1)
}
