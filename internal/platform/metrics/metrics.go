package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	EvaluationsTotal  *prometheus.CounterVec
	ProgramsEvaluated *prometheus.CounterVec
	EvaluationLatency *prometheus.HistogramVec
	CatalogLoadErrors *prometheus.CounterVec
	EndpointLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreefinder_evaluations_total",
			Help: "Total number of applicant evaluations, labeled by institution and outcome",
		}, []string{"institution", "outcome"}),
		ProgramsEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreefinder_programs_evaluated_total",
			Help: "Total number of program rule trees evaluated, labeled by institution",
		}, []string{"institution"}),
		EvaluationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degreefinder_evaluation_latency_seconds",
			Help:    "Latency of one institution's full evaluation in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"institution"}),
		CatalogLoadErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "degreefinder_catalog_load_errors_total",
			Help: "Total number of catalog/policy load failures, labeled by institution",
		}, []string{"institution"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degreefinder_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementEvaluations increments the evaluations counter for an institution and outcome.
func (m *Metrics) IncrementEvaluations(institution, outcome string) {
	m.EvaluationsTotal.WithLabelValues(institution, outcome).Inc()
}

// AddProgramsEvaluated adds to the programs evaluated counter for an institution.
func (m *Metrics) AddProgramsEvaluated(institution string, count int) {
	m.ProgramsEvaluated.WithLabelValues(institution).Add(float64(count))
}

// ObserveEvaluationLatency records the latency of one institution's evaluation.
func (m *Metrics) ObserveEvaluationLatency(institution string, d time.Duration) {
	m.EvaluationLatency.WithLabelValues(institution).Observe(d.Seconds())
}

// IncrementCatalogLoadErrors increments the catalog load error counter.
func (m *Metrics) IncrementCatalogLoadErrors(institution string) {
	m.CatalogLoadErrors.WithLabelValues(institution).Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
