package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Layout Metrics
	LayoutsTotal           *prometheus.CounterVec
	LayoutDuration         prometheus.Histogram
	LayoutEntities         prometheus.Histogram
	LayoutIterations       prometheus.Histogram
	LayoutResidualOverlaps prometheus.Histogram
	LayoutBucketEntities   *prometheus.CounterVec

	// Catalog Metrics
	CatalogLoadsTotal      *prometheus.CounterVec
	CatalogLoadDuration    *prometheus.HistogramVec
	CatalogEntries         prometheus.Gauge
	CatalogMatches         prometheus.Gauge
	CatalogRecordsRejected *prometheus.CounterVec

	// Cache Metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheEntries       prometheus.Gauge

	// Batch Metrics
	BatchRunsTotal       *prometheus.CounterVec
	BatchDuration        prometheus.Histogram
	BatchArticles        prometheus.Gauge
	BatchLastSuccessTime prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	started  time.Time
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}

	r.initLayoutMetrics()
	r.initCatalogMetrics()
	r.initCacheMetrics()
	r.initBatchMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
