package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_layouts_total",
			Help: "Relation maps computed, by outcome (converged, capped, empty)",
		},
		[]string{"outcome"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relmap_layout_duration_seconds",
			Help:    "Time to compute one relation map",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.LayoutEntities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relmap_layout_entities",
			Help:    "Related entities placed per relation map",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250},
		},
	)

	r.LayoutIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relmap_layout_collision_iterations",
			Help:    "Collision passes run per relation map",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 140},
		},
	)

	r.LayoutResidualOverlaps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relmap_layout_residual_overlaps",
			Help:    "Circle pairs still overlapping after the collision pass",
			Buckets: []float64{0, 1, 5, 10, 50, 100},
		},
	)

	r.LayoutBucketEntities = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_layout_bucket_entities_total",
			Help: "Entities placed per similarity bucket",
		},
		[]string{"bucket"},
	)
}
