// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package api is the HTTP shell around the module pipeline: a chi router that
// serves one page per registered module inside a shared layout, a GeoJSON
// points endpoint, health checks, Prometheus metrics and Swagger UI.
//
// The Swagger document is registered by the generated docs package; import it
// for its side effect wherever the router is served.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/sightmap/internal/middleware"
	"github.com/tomtom215/sightmap/internal/module"
)

// APIPrefix is the prefix of every JSON endpoint.
const APIPrefix = "/api/v1"

// HealthChecker reports store health. *database.DB satisfies it.
type HealthChecker interface {
	Ping(ctx context.Context) error
	BreakerState() string
}

// Router serves the registered modules.
type Router struct {
	registry *module.Registry
	pipeline *module.Pipeline
	health   HealthChecker
	chi      *ChiMiddleware
	started  time.Time
}

// NewRouter creates a router over a registry whose discovery has finished.
func NewRouter(registry *module.Registry, pipeline *module.Pipeline, health HealthChecker, cfg *ChiMiddlewareConfig) *Router {
	return &Router{
		registry: registry,
		pipeline: pipeline,
		health:   health,
		chi:      NewChiMiddleware(cfg),
		started:  time.Now(),
	}
}

// Handler builds the chi route tree. Module routes are fixed at this point;
// modules registered afterwards are not served.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5))

	r.NotFound(router.notFound)

	r.Group(func(r chi.Router) {
		r.Use(PageSecurityHeaders)
		r.Use(router.chi.RateLimit())

		r.Get("/", router.Index)
		for _, entry := range router.registry.Entries() {
			r.Get(entry.Descriptor.Route, router.ModulePage(entry))
		}
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(router.chi.CORS())
		r.Use(APISecurityHeaders)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", router.HealthLive)
			r.Get("/ready", router.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chi.RateLimit())
			r.Get("/modules", router.Modules)
			r.Get("/species", router.Species)
			r.Get("/points", router.Points)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
