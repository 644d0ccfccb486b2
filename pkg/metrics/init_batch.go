package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBatchMetrics() {
	r.BatchRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "relmap_batch_runs_total",
			Help: "Batch layout runs by status",
		},
		[]string{"status"},
	)

	r.BatchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relmap_batch_duration_seconds",
			Help:    "Wall time of a batch layout run",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	r.BatchArticles = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relmap_batch_articles",
			Help: "Articles laid out by the most recent batch run",
		},
	)

	r.BatchLastSuccessTime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "relmap_batch_last_success_timestamp_seconds",
			Help: "Unix time of the last successful batch run",
		},
	)
}
