package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/sampleapp/internal/http/health"
	"github.com/janisto/sampleapp/internal/http/sample"
)

const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// Register wires all HTTP routes. Operational endpoints are plain chi handlers kept
// out of the OpenAPI document; the sample route is a documented huma operation.
// A nil metrics handler leaves MetricsPath unmounted.
func Register(router chi.Router, api huma.API, version string, metrics http.Handler) {
	router.Get(HealthPath, health.Handler(version))
	if metrics != nil {
		router.Method(http.MethodGet, MetricsPath, metrics)
	}
	sample.Register(api)
}
