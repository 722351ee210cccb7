// Package metrics exposes Prometheus collectors for the mirror.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	storeQueriesTotal          *prometheus.CounterVec
	storeQueryDurationSeconds  *prometheus.HistogramVec
	sitesRegistered            prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		storeQueriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mirror_store_queries_total",
				Help: "Total number of data store lookups, labeled by site, operation and outcome.",
			},
			[]string{"site", "op", "outcome"},
		)

		storeQueryDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mirror_store_query_duration_seconds",
				Help:    "Histogram of data store lookup latencies, labeled by operation.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"op"},
		)

		sitesRegistered = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mirror_sites",
				Help: "Number of sites served by this process.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery records one store lookup.
func ObserveQuery(siteName, op string, err error, duration time.Duration) {
	storeQueriesTotal.WithLabelValues(siteName, op, outcome(err)).Inc()
	storeQueryDurationSeconds.WithLabelValues(op).Observe(duration.Seconds())
}

// SetSites records how many sites the registry holds.
func SetSites(n int) {
	sitesRegistered.Set(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, site.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
