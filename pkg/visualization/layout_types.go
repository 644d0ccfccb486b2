package visualization

import "fmt"

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bucket is one of the four ordered similarity tiers. Lower values sit
// closer to the focus.
type Bucket int

const (
	// Closest holds the most similar entities
	Closest Bucket = iota
	// Near holds the second tier
	Near
	// Far holds the third tier
	Far
	// Farthest holds everything below the last threshold
	Farthest
)

// BucketCount is the number of buckets
const BucketCount = 4

// Buckets lists every bucket from closest to farthest
var Buckets = [BucketCount]Bucket{Closest, Near, Far, Farthest}

// String returns the bucket name
func (b Bucket) String() string {
	switch b {
	case Closest:
		return "closest"
	case Near:
		return "near"
	case Far:
		return "far"
	case Farthest:
		return "farthest"
	default:
		return "unknown"
	}
}

// MarshalText encodes the bucket by name
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a bucket name
func (b *Bucket) UnmarshalText(text []byte) error {
	parsed, ok := ParseBucket(string(text))
	if !ok {
		return fmt.Errorf("unknown bucket %q", text)
	}
	*b = parsed
	return nil
}

// ParseBucket converts a bucket name back to a Bucket
func ParseBucket(name string) (Bucket, bool) {
	for _, b := range Buckets {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// Band is a [Min, Max] orbital radius range in pixels
type Band struct {
	Min float64 `json:"min" yaml:"min" toml:"min"`
	Max float64 `json:"max" yaml:"max" toml:"max"`
}

// Width returns Max - Min
func (b Band) Width() float64 {
	return b.Max - b.Min
}

// Contains reports whether r lies inside the band (inclusive)
func (b Band) Contains(r float64) bool {
	return r >= b.Min && r <= b.Max
}

// Thresholds are the three similarity cut points, Closest > Near > Far.
// A score equal to a threshold belongs to the higher tier.
type Thresholds struct {
	Closest float64 `json:"closest" yaml:"closest" toml:"closest"`
	Near    float64 `json:"near" yaml:"near" toml:"near"`
	Far     float64 `json:"far" yaml:"far" toml:"far"`
}

// FocusEntity is the anchor of a relation map. The engine only carries it
// through to the result.
type FocusEntity struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// RelatedEntity is one item to place around the focus
type RelatedEntity struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// PositionedEntity is a RelatedEntity with its computed placement.
// Radius is the orbital distance from the focus; Size is the rendered
// circle diameter.
type PositionedEntity struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
	Bucket     Bucket  `json:"bucket"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Angle      float64 `json:"angle"`
	Radius     float64 `json:"radius"`
	Size       float64 `json:"size"`
}

// Position returns the Cartesian position
func (p PositionedEntity) Position() Position {
	return Position{X: p.X, Y: p.Y}
}

// DistributionStats summarises the similarity scores of one invocation
type DistributionStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Diagnostics reports how the collision pass ended
type Diagnostics struct {
	Iterations       int  `json:"iterations"`
	Converged        bool `json:"converged"`
	ResidualOverlaps int  `json:"residual_overlaps"`
}

// LayoutConfig configures the radial relation-map layout
type LayoutConfig struct {
	Thresholds Thresholds        // Bucket cut points
	BaseBands  [BucketCount]Band // Unscaled orbit bands, closest first
	BandGap    float64           // Minimum gap between consecutive bands after scaling
	Padding    float64           // Minimum spacing between circle edges
	Iterations int               // Maximum collision passes

	EasingExponent  float64 // k in 1 - t^k
	IndexModulus    int     // Fan-out period for same-bucket entities
	JitterMagnitude float64 // Radial jitter as a fraction of band width; zero disables all jitter
	AngleJitter     float64 // Peak-to-peak angular jitter in radians

	NodeSizeBase     float64 // Rendered diameter at similarity 0
	NodeSizeBoost    float64 // Extra diameter at similarity 1
	NodeSizeExponent float64

	SpreadCeiling float64 // spreadFactor = max(SpreadFloor, SpreadCeiling - stdDev)
	SpreadFloor   float64
	LowMeanCutoff float64 // Means below this use LowMeanScale
	LowMeanScale  float64
	HighMeanScale float64

	Seed string // Used when a call passes no seed
}

// Layout computes a relation map for a focus entity
type Layout interface {
	ComputeLayout(focus FocusEntity, related []RelatedEntity, seed string) *RelationMap
}

// RelationMap is the result of one layout invocation
type RelationMap struct {
	Focus       FocusEntity        `json:"focus"`
	Seed        string             `json:"seed"`
	Positions   []PositionedEntity `json:"positions"`
	Stats       DistributionStats  `json:"stats"`
	Bands       map[Bucket]Band    `json:"bands"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}
