// Package metrics provides Prometheus instrumentation for the coach engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OptimizeRequests counts optimize calls, partitioned by outcome
	// (ok, invalid, error).
	OptimizeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_optimize_requests_total",
		Help: "Total lineup optimize requests",
	}, []string{"outcome"})

	// OptimizeDuration tracks end-to-end optimize latency.
	OptimizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coach_optimize_duration_seconds",
		Help:    "Lineup optimize latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// EnrichmentFallbacks counts league-data lookups that fell back to
	// defaults, partitioned by source (session, settings, stats, positions).
	EnrichmentFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_enrichment_fallbacks_total",
		Help: "League enrichment calls that degraded to defaults",
	}, []string{"source"})

	// Recommendations counts emitted suggestions by action.
	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_recommendations_total",
		Help: "Start/sit recommendations emitted",
	}, []string{"action"})

	// LLMReviews counts lineup review calls to the advice model by outcome
	// (ok, error, skipped).
	LLMReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_llm_reviews_total",
		Help: "LLM lineup review calls",
	}, []string{"outcome"})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coach_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; the route surface is small and
		// parameter-free, so cardinality stays bounded.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
