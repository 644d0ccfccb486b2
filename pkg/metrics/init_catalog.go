package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCatalogMetrics() {
	r.CatalogLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_catalog_loads_total",
			Help: "Catalog loads by source type and status",
		},
		[]string{"source_type", "status"},
	)

	r.CatalogLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relmap_catalog_load_duration_seconds",
			Help:    "Time to load and index a catalog",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"source_type"},
	)

	r.CatalogEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relmap_catalog_entries",
			Help: "Articles in the loaded catalog",
		},
	)

	r.CatalogMatches = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relmap_catalog_matches",
			Help: "Dataset matches across all articles in the loaded catalog",
		},
	)

	r.CatalogRecordsRejected = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_catalog_records_rejected_total",
			Help: "Records dropped or collapsed while indexing, by reason",
		},
		[]string{"reason"},
	)
}
