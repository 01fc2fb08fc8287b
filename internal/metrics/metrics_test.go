package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	c.ObserveSubmission("in", "success", 150*time.Millisecond)
	c.ObserveSubmission("in", "success", 50*time.Millisecond)
	c.SetDistance(42)
	c.SetControlEnabled("out", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Submissions.WithLabelValues("in", "success")))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.OfficeDistance))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ControlEnabled.WithLabelValues("out")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "absensi_submissions_total")
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *metrics.Collector
	assert.NotPanics(t, func() {
		c.ObserveSubmission("in", "error", time.Second)
		c.SetDistance(1)
		c.SetControlEnabled("in", false)
	})
}

func TestNewCollector_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	_, err = metrics.NewCollector(reg)
	assert.NoError(t, err)
}
