package visualization

import (
	"math"

	"github.com/dd0wney/biocatalog/pkg/validation"
)

// orbitNode is the working state of one entity during collision resolution
type orbitNode struct {
	id       string
	r        float64 // circle radius
	orbit    float64 // distance from the focus
	orbitMin float64
	orbitMax float64
	angle    float64
	x, y     float64
}

func newOrbitNode(id string, r, orbit float64, band Band, angle float64) orbitNode {
	return orbitNode{
		id:       id,
		r:        r,
		orbit:    orbit,
		orbitMin: band.Min,
		orbitMax: band.Max,
		angle:    angle,
		x:        math.Cos(angle) * orbit,
		y:        math.Sin(angle) * orbit,
	}
}

// reproject pulls the node back onto its own band, keeping its bearing
func (n *orbitNode) reproject() {
	n.angle = math.Atan2(n.y, n.x)
	n.orbit = validation.ClampFloat(math.Hypot(n.x, n.y), n.orbitMin, n.orbitMax)
	n.x = math.Cos(n.angle) * n.orbit
	n.y = math.Sin(n.angle) * n.orbit
}

// overlapTolerance absorbs rounding left over after a pair is separated
const overlapTolerance = 1e-6

// resolveCollisions relaxes pairwise overlaps. Each overlapping pair is
// pushed apart symmetrically along the line between centres, then both are
// re-projected onto their bands so no entity leaves its bucket. Stops after
// a pass with no adjustment or after maxIterations passes.
func resolveCollisions(nodes []orbitNode, padding float64, maxIterations int, seed string) (iterations int, converged bool) {
	for iter := 0; iter < maxIterations; iter++ {
		moved := false

		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				ni := &nodes[i]
				nj := &nodes[j]

				dx := nj.x - ni.x
				dy := nj.y - ni.y
				dist := math.Hypot(dx, dy)

				// Coincident centres have no separation direction. The nudge is
				// tangential so the band clamp cannot undo it.
				if dist == 0 {
					bump := 0.5 + 0.5*unitHash(seed, ni.id, nj.id)
					nj.x -= math.Sin(nj.angle) * bump
					nj.y += math.Cos(nj.angle) * bump
					nj.reproject()
					moved = true

					dx = nj.x - ni.x
					dy = nj.y - ni.y
					dist = math.Hypot(dx, dy)
					if dist == 0 {
						continue
					}
				}

				minDist := ni.r + nj.r + padding
				if minDist-dist <= overlapTolerance {
					continue
				}

				overlap := (minDist - dist) / 2
				ux := dx / dist
				uy := dy / dist

				ni.x -= ux * overlap
				ni.y -= uy * overlap
				nj.x += ux * overlap
				nj.y += uy * overlap

				ni.reproject()
				nj.reproject()
				moved = true
			}
		}

		if !moved {
			return iter + 1, true
		}
	}

	return maxIterations, false
}

// countOverlaps returns the number of pairs whose circles still intersect,
// ignoring padding
func countOverlaps(nodes []orbitNode) int {
	const epsilon = 1e-9
	overlaps := 0
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			dist := math.Hypot(nodes[j].x-nodes[i].x, nodes[j].y-nodes[i].y)
			if dist < nodes[i].r+nodes[j].r-epsilon {
				overlaps++
			}
		}
	}
	return overlaps
}
