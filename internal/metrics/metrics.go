package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tripsync"

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	signups      prometheus.Counter
	logins       *prometheus.CounterVec
	messagesSent prometheus.Counter
	uploads      *prometheus.CounterVec
	payments     prometheus.Counter
	rateLimited  *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total number of accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts by result.",
		}, []string{"result"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "sent_total",
			Help:      "Total number of direct messages sent.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "files_total",
			Help:      "Total number of uploaded files by kind and result.",
		}, []string{"kind", "result"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "completed_total",
			Help:      "Total number of simulated payments completed.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by a rate limiter.",
		}, []string{"scope"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.signups,
		m.logins,
		m.messagesSent,
		m.uploads,
		m.payments,
		m.rateLimited,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Handler returns an HTTP handler exposing the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// IncInFlight marks the start of a request
func (m *Metrics) IncInFlight() { m.httpInFlight.Inc() }

// DecInFlight marks the end of a request
func (m *Metrics) DecInFlight() { m.httpInFlight.Dec() }

// RecordHTTPRequest records one finished request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	method = strings.ToUpper(method)
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordSignup() { m.signups.Inc() }

func (m *Metrics) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordMessageSent() { m.messagesSent.Inc() }

// RecordUpload counts an upload attempt; kind is "listing" or "avatar"
func (m *Metrics) RecordUpload(kind string, success bool) {
	result := "rejected"
	if success {
		result = "stored"
	}
	m.uploads.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordPayment() { m.payments.Inc() }

func (m *Metrics) RecordRateLimited(scope string) {
	m.rateLimited.WithLabelValues(scope).Inc()
}
