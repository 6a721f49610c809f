package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceWorkloadCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveWorkloadReport("S1", "ok", 2, 15*time.Millisecond)
	m.ObserveWorkloadReport("S2", "UNKNOWN_EMPLOYMENT_KIND", 0, time.Millisecond)
	m.ObserveReportJob("pdf", "FINISHED")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.workloadBuilds.WithLabelValues("S1", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.skippedEntries))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reportJobs.WithLabelValues("pdf", "FINISHED")))

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.WorkloadReports)
	assert.Equal(t, uint64(2), snapshot.SkippedEntries)
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snapshot.CacheHitRatio, 1e-9)
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "workload_skipped_entries_total")
	// labelled vectors only appear once a series has been observed
	assert.NotContains(t, body, "workload_reports_total{")

	m.ObserveWorkloadReport("S1", "ok", 0, time.Millisecond)
	m.ObserveReportJob("pdf", "FINISHED")

	w = httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "workload_reports_total{")
	assert.Contains(t, body, "report_jobs_total{")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveWorkloadReport("S1", "ok", 1, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	assert.Equal(t, uint64(0), m.Snapshot().WorkloadReports)
}
