// Package metrics wires Prometheus instrumentation for the core,
// adapted from the teacher's internal/service/metrics_service.go: a
// registry owned by one Service, built at startup and threaded into
// whichever components need to record something.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service encapsulates Prometheus instrumentation for HTTP requests,
// solver runs, normalization clustering, and integrity health.
type Service struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	solveDuration *prometheus.HistogramVec
	solveOutcome  *prometheus.CounterVec

	normalizationClusters *prometheus.CounterVec
	integrityHealthScore  prometheus.Gauge
}

// NewService registers the core collectors.
func NewService() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solve_duration_seconds",
		Help:    "Duration of a solver run",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	solveOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_outcomes_total",
		Help: "Solver outcomes by backend and status",
	}, []string{"backend", "status"})

	normalizationClusters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "normalization_clusters_total",
		Help: "Name clusters proposed by the normalization agent",
	}, []string{"entity"})

	integrityHealthScore := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "integrity_health_score",
		Help: "Most recent overall data-quality health score",
	})

	registry.MustRegister(requestDuration, requestTotal, solveDuration, solveOutcome, normalizationClusters, integrityHealthScore)

	return &Service{
		registry:              registry,
		handler:               promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:       requestDuration,
		requestTotal:          requestTotal,
		solveDuration:         solveDuration,
		solveOutcome:          solveOutcome,
		normalizationClusters: normalizationClusters,
		integrityHealthScore:  integrityHealthScore,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *Service) Handler() http.Handler {
	if s == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return s.handler
}

// ObserveHTTPRequest records one HTTP request's latency and outcome.
func (s *Service) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if s == nil {
		return
	}
	s.requestDuration.WithLabelValues(method, path, status).Observe(seconds)
	s.requestTotal.WithLabelValues(method, path, status).Inc()
}

// ObserveSolve records one solver invocation's latency and outcome.
func (s *Service) ObserveSolve(backend, status string, seconds float64) {
	if s == nil {
		return
	}
	s.solveDuration.WithLabelValues(backend).Observe(seconds)
	s.solveOutcome.WithLabelValues(backend, status).Inc()
}

// IncNormalizationClusters records how many clusters one analyze call
// proposed for the given entity type ("faculty" or "course").
func (s *Service) IncNormalizationClusters(entity string, count int) {
	if s == nil || count <= 0 {
		return
	}
	s.normalizationClusters.WithLabelValues(entity).Add(float64(count))
}

// SetIntegrityHealthScore records the most recent overall health score.
func (s *Service) SetIntegrityHealthScore(score float64) {
	if s == nil {
		return
	}
	s.integrityHealthScore.Set(score)
}
