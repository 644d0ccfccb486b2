package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Layout outcomes
const (
	OutcomeConverged = "converged"
	OutcomeCapped    = "capped"
	OutcomeEmpty     = "empty"
)

// LayoutOutcome classifies a finished layout for the outcome label
func LayoutOutcome(entities int, converged bool) string {
	switch {
	case entities == 0:
		return OutcomeEmpty
	case converged:
		return OutcomeConverged
	default:
		return OutcomeCapped
	}
}

// RecordLayout records one relation map computation. bucketCounts is keyed
// by bucket name.
func (r *Registry) RecordLayout(entities, iterations, residualOverlaps int, converged bool, bucketCounts map[string]int, duration time.Duration) {
	r.LayoutsTotal.WithLabelValues(LayoutOutcome(entities, converged)).Inc()
	r.LayoutDuration.Observe(duration.Seconds())
	r.LayoutEntities.Observe(float64(entities))
	r.LayoutIterations.Observe(float64(iterations))
	r.LayoutResidualOverlaps.Observe(float64(residualOverlaps))

	for bucket, n := range bucketCounts {
		if n > 0 {
			r.LayoutBucketEntities.WithLabelValues(bucket).Add(float64(n))
		}
	}
}

// RecordCatalogLoad records a catalog load attempt
func (r *Registry) RecordCatalogLoad(sourceType, status string, duration time.Duration) {
	r.CatalogLoadsTotal.WithLabelValues(sourceType, status).Inc()
	r.CatalogLoadDuration.WithLabelValues(sourceType).Observe(duration.Seconds())
}

// SetCatalogSize publishes the size of the loaded catalog
func (r *Registry) SetCatalogSize(entries, matches int) {
	r.CatalogEntries.Set(float64(entries))
	r.CatalogMatches.Set(float64(matches))
}

// RecordRejectedRecords counts records dropped, collapsed or flagged for a reason
func (r *Registry) RecordRejectedRecords(reason string, n int) {
	if n > 0 {
		r.CatalogRecordsRejected.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordCacheLookup records a layout cache hit or miss and the cache size
func (r *Registry) RecordCacheLookup(hit bool, entries int) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheRequestsTotal.WithLabelValues(result).Inc()
	r.CacheEntries.Set(float64(entries))
}

// RecordBatch records a finished batch run
func (r *Registry) RecordBatch(articles int, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.BatchRunsTotal.WithLabelValues(status).Inc()
	r.BatchDuration.Observe(duration.Seconds())
	r.BatchArticles.Set(float64(articles))
	if err == nil {
		r.BatchLastSuccessTime.SetToCurrentTime()
	}
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(mem.Alloc))
	r.MemorySysBytes.Set(float64(mem.Sys))
}

// WriteTextfile writes every metric in the Prometheus text format, for the
// node_exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
