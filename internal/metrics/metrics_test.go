package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := metrics.New()

	m.RecordSignup()
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)
	m.RecordMessageSent()
	m.RecordUpload("listing", true)
	m.RecordUpload("avatar", false)
	m.RecordPayment()
	m.RecordRateLimited("auth")

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	series := make(map[string]int, len(families))
	for _, f := range families {
		names[f.GetName()] = true
		series[f.GetName()] = len(f.GetMetric())
	}
	for _, want := range []string{
		"tripsync_auth_signups_total",
		"tripsync_auth_logins_total",
		"tripsync_messages_sent_total",
		"tripsync_uploads_files_total",
		"tripsync_payments_completed_total",
		"tripsync_http_rate_limited_total",
	} {
		assert.True(t, names[want], want)
	}

	assert.Equal(t, 2, series["tripsync_auth_logins_total"], "one series per result")
	assert.Equal(t, 2, series["tripsync_uploads_files_total"])
}

func TestMetrics_HandlerExposesHTTPMetrics(t *testing.T) {
	m := metrics.New()

	m.IncInFlight()
	m.RecordHTTPRequest("get", "/api/listings", http.StatusOK, 20*time.Millisecond)
	m.RecordHTTPRequest("GET", "", http.StatusNotFound, time.Millisecond)
	m.DecInFlight()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `tripsync_http_requests_total{method="GET",path="/api/listings",status="200"} 1`)
	assert.Contains(t, text, `tripsync_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, text, "tripsync_http_inflight_requests 0")
	assert.Contains(t, text, "tripsync_http_request_duration_seconds_bucket")
}
