// Package metrics exposes Prometheus metrics for the agency backend.
// All metrics live on a private registry so tests can create as many
// instances as they like without duplicate-registration panics.
// Every method is safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth operation labels.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpRefresh        = "refresh"
	OpLogout         = "logout"
	OpChangePassword = "change_password"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Metrics contains the custom Prometheus metrics for the service.
type Metrics struct {
	registry           *prometheus.Registry
	authEvents         *prometheus.CounterVec
	tokenVerifications *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors plus the service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agency_auth_events_total",
				Help: "Total number of session operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		tokenVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agency_token_verifications_total",
				Help: "Total number of bearer token checks by result",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agency_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	registry.MustRegister(m.authEvents, m.tokenVerifications, m.requestDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveAuth counts one session operation outcome.
func (m *Metrics) ObserveAuth(operation, result string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(operation, result).Inc()
}

// ObserveTokenVerification counts one bearer token check.
// result is one of "ok", "missing", "invalid", "expired".
func (m *Metrics) ObserveTokenVerification(result string) {
	if m == nil {
		return
	}
	m.tokenVerifications.WithLabelValues(result).Inc()
}

// Middleware records request latency labelled by the chi route pattern, not the raw path,
// so usernames and ids never become label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
