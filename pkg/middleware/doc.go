// Package middleware provides net/http middleware for observing the
// preview server.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request, named after the matched
// chi route pattern:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("wingman-preview")))
//
// The tracer comes from the global provider; configure it with
// otel.SetTracerProvider before serving.
//
// # Prometheus
//
// Metrics counts requests and observes their duration per route:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//
// Exposed metrics (namespace "wingman", subsystem "preview"):
//
//	wingman_preview_requests_total{route,code}
//	wingman_preview_request_duration_seconds{route}
//	wingman_preview_requests_in_flight
package middleware
