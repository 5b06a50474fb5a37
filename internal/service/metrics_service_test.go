package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSchedulingCollectors(t *testing.T) {
	m := NewMetricsService()

	m.AddGeneratedSlots(6)
	m.AddGeneratedSlots(0)
	m.ObserveRebalance("sync", 20*time.Millisecond, 12.5)
	m.RecordRebalanceJob("SUCCEEDED")
	m.RecordRebalanceJob("SUCCEEDED")

	assert.Equal(t, 6.0, testutil.ToFloat64(m.slotsGenerated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rebalanceJobs.WithLabelValues("SUCCEEDED")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "rebalance_duration_seconds_bucket"))
	assert.True(t, strings.Contains(body, "rebalance_improvement_percent_sum 12.5"))
}

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.InDelta(t, 2.0/3.0, testutil.ToFloat64(m.cacheHitRatio), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/drafts", 200, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveRebalance("async", time.Second, 0)
		m.RecordRebalanceJob("FAILED")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
