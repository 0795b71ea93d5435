package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"degreefinder/internal/platform/health"
	"degreefinder/internal/platform/metrics"
	"degreefinder/internal/platform/middleware"
)

// NewRouter wires all public endpoints with middleware. Metrics may be nil,
// in which case endpoint latency is not recorded.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger, m *metrics.Metrics, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if m != nil {
		r.Use(middleware.EndpointLatency(m.ObserveEndpointLatency))
	}
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.CORS)
	r.Use(middleware.ContentTypeJSON)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Catalog endpoints
	r.Get("/institutions", h.handleInstitutions)
	r.Get("/subjects", h.handleSubjects)
	r.Get("/programs", h.handlePrograms)

	// Eligibility endpoint
	r.Post("/compute", h.handleCompute)

	return r
}
