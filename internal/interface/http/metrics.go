package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/educationaltr/study-tracker/internal/domain/streak"
)

// Metrics holds the Prometheus collectors of the API. Each instance owns its
// registry so tests can build servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	streakOutcomes *prometheus.CounterVec
	streakFailures prometheus.Counter
	cacheState     *prometheus.GaugeVec
	jobRuns        *prometheus.CounterVec
}

// NewMetrics registers the collectors, including the Go runtime ones.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		streakOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streak_updates_total",
				Help: "Streak updates by outcome",
			},
			[]string{"outcome"},
		),
		streakFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streak_update_failures_total",
			Help: "Sessions saved without a streak update",
		}),
		cacheState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cache_circuit_state",
				Help: "Circuit breaker state per cache (0 closed, 1 open, 2 half-open)",
			},
			[]string{"name"},
		),
		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_job_runs_total",
				Help: "Background job runs by result",
			},
			[]string{"job", "status"},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.streakOutcomes,
		m.streakFailures,
		m.cacheState,
		m.jobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStreakOutcome counts a successful streak update.
func (m *Metrics) ObserveStreakOutcome(outcome streak.Outcome) {
	m.streakOutcomes.WithLabelValues(string(outcome)).Inc()
}

// ObserveStreakFailure counts a session saved without its streak update.
func (m *Metrics) ObserveStreakFailure() {
	m.streakFailures.Inc()
}

// SetCacheState records a breaker transition.
func (m *Metrics) SetCacheState(name string, state int) {
	m.cacheState.WithLabelValues(name).Set(float64(state))
}

// ObserveJob counts a background job run.
func (m *Metrics) ObserveJob(job string, ok bool) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.jobRuns.WithLabelValues(job, status).Inc()
}

// Middleware records request count and latency per route template, so
// paths with IDs do not create a series per ID.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
