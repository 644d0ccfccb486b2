package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCacheMetrics() {
	r.CacheRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_layout_cache_requests_total",
			Help: "Layout cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	r.CacheEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relmap_layout_cache_entries",
			Help: "Relation maps currently held in the layout cache",
		},
	)
}
