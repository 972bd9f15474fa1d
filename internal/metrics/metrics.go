// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package metrics holds the Prometheus collectors for the store, the map
// pipeline, the species cache, the circuit breaker and the HTTP layer.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "error_type"},
	)

	RecordsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_records_loaded_total",
			Help: "Occurrence records written by the seed loader",
		},
	)

	// Map pipeline
	ModuleRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "module_render_duration_seconds",
			Help:    "Time spent rendering a module page",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"module"},
	)

	ModuleRenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "module_render_errors_total",
			Help: "Module renders that failed",
		},
		[]string{"module", "reason"},
	)

	PointsRendered = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "map_points_rendered",
			Help:    "Styled points per rendered map",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"module"},
	)

	ModulesRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "modules_registered",
			Help: "Modules that passed discovery and are routable",
		},
	)

	// Species index cache
	SpeciesCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "species_cache_hits_total",
			Help: "Species index lookups served from cache",
		},
	)

	SpeciesCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "species_cache_misses_total",
			Help: "Species index lookups that queried the store",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordDBQuery records a store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, errorType(err)).Inc()
	}
}

// errorType keeps the error label bounded.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "query"
	}
}

// RecordModuleRender records one module page render.
func RecordModuleRender(module string, duration time.Duration, points int, reason string) {
	ModuleRenderDuration.WithLabelValues(module).Observe(duration.Seconds())
	if reason != "" {
		ModuleRenderErrors.WithLabelValues(module, reason).Inc()
		return
	}
	PointsRendered.WithLabelValues(module).Observe(float64(points))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
