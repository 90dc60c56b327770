package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SessionRefreshTotal counts sliding-expiration token re-issues.
	SessionRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_refresh_total",
			Help: "Total number of session tokens re-issued on authorized requests",
		},
	)

	// AuthFailureTotal counts rejected requests by reason (NoActiveSession, ExpiredJWT, MalformedJWT).
	AuthFailureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failure_total",
			Help: "Total number of authorization failures by reason",
		},
		[]string{"reason"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, SessionRefreshTotal, AuthFailureTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /cocktail/123 -> /cocktail/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncSessionRefresh increments the sliding-refresh counter.
func IncSessionRefresh() {
	SessionRefreshTotal.Inc()
}

// IncAuthFailure increments the auth failure counter for the given reason.
func IncAuthFailure(reason string) {
	AuthFailureTotal.WithLabelValues(reason).Inc()
}
