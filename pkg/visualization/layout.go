package visualization

import (
	"encoding/json"
	"math"
)

// Viewport is the bounding box a renderer needs to show the whole map
type Viewport struct {
	Min Position `json:"min"`
	Max Position `json:"max"`
}

type relationMapExport struct {
	*RelationMap
	Viewport Viewport `json:"viewport"`
}

// ExportJSON exports the relation map to JSON, with its viewport
func (m *RelationMap) ExportJSON() ([]byte, error) {
	lo, hi := m.Bounds()
	return json.Marshal(relationMapExport{
		RelationMap: m,
		Viewport:    Viewport{Min: lo, Max: hi},
	})
}

// Band returns the orbit band computed for a bucket
func (m *RelationMap) Band(b Bucket) Band {
	return m.Bands[b]
}

// Bounds returns the bounding box of the focus and every circle, so a
// renderer can size its viewport. The focus sits at the origin.
func (m *RelationMap) Bounds() (lo, hi Position) {
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0

	for _, p := range m.Positions {
		r := p.Size / 2
		minX = math.Min(minX, p.X-r)
		maxX = math.Max(maxX, p.X+r)
		minY = math.Min(minY, p.Y-r)
		maxY = math.Max(maxY, p.Y+r)
	}

	return Position{X: minX, Y: minY}, Position{X: maxX, Y: maxY}
}

// Coincident reports whether any two positions share exact coordinates
func (m *RelationMap) Coincident() bool {
	seen := make(map[Position]struct{}, len(m.Positions))
	for _, p := range m.Positions {
		pos := p.Position()
		if _, ok := seen[pos]; ok {
			return true
		}
		seen[pos] = struct{}{}
	}
	return false
}
