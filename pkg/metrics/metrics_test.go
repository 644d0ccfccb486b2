package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("Failed to get metric %v: %v", labels, err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var metric dto.Metric
	if err := h.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.LayoutsTotal == nil || r.LayoutDuration == nil {
		t.Error("Layout metrics not initialized")
	}
	if r.CatalogLoadsTotal == nil || r.CatalogEntries == nil {
		t.Error("Catalog metrics not initialized")
	}
	if r.CacheRequestsTotal == nil {
		t.Error("Cache metrics not initialized")
	}
	if r.BatchRunsTotal == nil {
		t.Error("Batch metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestLayoutOutcome(t *testing.T) {
	tests := []struct {
		entities  int
		converged bool
		want      string
	}{
		{0, true, OutcomeEmpty},
		{0, false, OutcomeEmpty},
		{5, true, OutcomeConverged},
		{5, false, OutcomeCapped},
	}
	for _, tt := range tests {
		if got := LayoutOutcome(tt.entities, tt.converged); got != tt.want {
			t.Errorf("LayoutOutcome(%d, %v) = %s, want %s", tt.entities, tt.converged, got, tt.want)
		}
	}
}

func TestRecordLayout(t *testing.T) {
	r := NewRegistry()

	r.RecordLayout(4, 3, 0, true, map[string]int{"closest": 1, "near": 2, "far": 1, "farthest": 0}, time.Millisecond)
	r.RecordLayout(50, 140, 7, false, map[string]int{"closest": 50}, 20*time.Millisecond)
	r.RecordLayout(0, 0, 0, true, nil, time.Microsecond)

	if v := counterValue(t, r.LayoutsTotal, OutcomeConverged); v != 1 {
		t.Errorf("converged = %v, want 1", v)
	}
	if v := counterValue(t, r.LayoutsTotal, OutcomeCapped); v != 1 {
		t.Errorf("capped = %v, want 1", v)
	}
	if v := counterValue(t, r.LayoutsTotal, OutcomeEmpty); v != 1 {
		t.Errorf("empty = %v, want 1", v)
	}
	if v := counterValue(t, r.LayoutBucketEntities, "closest"); v != 51 {
		t.Errorf("closest entities = %v, want 51", v)
	}
	if v := counterValue(t, r.LayoutBucketEntities, "near"); v != 2 {
		t.Errorf("near entities = %v, want 2", v)
	}
	if n := histogramCount(t, r.LayoutIterations); n != 3 {
		t.Errorf("iteration samples = %d, want 3", n)
	}
	if n := histogramCount(t, r.LayoutDuration); n != 3 {
		t.Errorf("duration samples = %d, want 3", n)
	}
}

func TestRecordCatalogLoad(t *testing.T) {
	r := NewRegistry()

	r.RecordCatalogLoad("file", "success", 10*time.Millisecond)
	r.RecordCatalogLoad("file", "success", 20*time.Millisecond)
	r.RecordCatalogLoad("s3", "error", 5*time.Millisecond)
	r.SetCatalogSize(120, 4300)
	r.RecordRejectedRecords("missing_osd_id", 3)
	r.RecordRejectedRecords("duplicate_osd_id", 0)

	if v := counterValue(t, r.CatalogLoadsTotal, "file", "success"); v != 2 {
		t.Errorf("file success = %v, want 2", v)
	}
	if v := counterValue(t, r.CatalogLoadsTotal, "s3", "error"); v != 1 {
		t.Errorf("s3 error = %v, want 1", v)
	}
	if v := gaugeValue(t, r.CatalogEntries); v != 120 {
		t.Errorf("entries = %v, want 120", v)
	}
	if v := gaugeValue(t, r.CatalogMatches); v != 4300 {
		t.Errorf("matches = %v, want 4300", v)
	}
	if v := counterValue(t, r.CatalogRecordsRejected, "missing_osd_id"); v != 3 {
		t.Errorf("rejected = %v, want 3", v)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	r := NewRegistry()

	r.RecordCacheLookup(false, 1)
	r.RecordCacheLookup(true, 1)
	r.RecordCacheLookup(true, 2)

	if v := counterValue(t, r.CacheRequestsTotal, "hit"); v != 2 {
		t.Errorf("hits = %v, want 2", v)
	}
	if v := counterValue(t, r.CacheRequestsTotal, "miss"); v != 1 {
		t.Errorf("misses = %v, want 1", v)
	}
	if v := gaugeValue(t, r.CacheEntries); v != 2 {
		t.Errorf("entries = %v, want 2", v)
	}
}

func TestRecordBatch(t *testing.T) {
	r := NewRegistry()

	r.RecordBatch(10, nil, time.Second)
	if v := counterValue(t, r.BatchRunsTotal, "success"); v != 1 {
		t.Errorf("success = %v, want 1", v)
	}
	if v := gaugeValue(t, r.BatchLastSuccessTime); v <= 0 {
		t.Errorf("last success timestamp not set: %v", v)
	}

	r.RecordBatch(3, errors.New("cancelled"), time.Second)
	if v := counterValue(t, r.BatchRunsTotal, "error"); v != 1 {
		t.Errorf("error = %v, want 1", v)
	}
	if v := gaugeValue(t, r.BatchArticles); v != 3 {
		t.Errorf("articles = %v, want 3", v)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	if v := gaugeValue(t, r.GoRoutines); v < 1 {
		t.Errorf("goroutines = %v, want >= 1", v)
	}
	if v := gaugeValue(t, r.MemorySysBytes); v <= 0 {
		t.Errorf("memory sys bytes = %v, want > 0", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordLayout(2, 1, 0, true, map[string]int{"far": 2}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "relmap.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`relmap_layouts_total{outcome="converged"} 1`,
		`relmap_layout_bucket_entities_total{bucket="far"} 2`,
		"relmap_goroutines",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestConcurrentRecording(t *testing.T) {
	r := NewRegistry()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				r.RecordLayout(1, 1, 0, true, map[string]int{"near": 1}, time.Microsecond)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if v := counterValue(t, r.LayoutsTotal, OutcomeConverged); v != 800 {
		t.Errorf("converged = %v, want 800", v)
	}
}
