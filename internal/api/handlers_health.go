// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/sightmap/internal/models"
)

// readyTimeout bounds the store ping of a readiness probe.
const readyTimeout = 2 * time.Second

// HealthStatus is the body of both health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Modules       int     `json:"modules"`
	Database      string  `json:"database,omitempty"`
	Breaker       string  `json:"breaker,omitempty"`
}

// HealthLive reports that the process is serving requests.
//
// @Summary Liveness check
// @Description Returns 200 while the process serves requests, regardless of the store.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=api.HealthStatus} "Service is alive"
// @Router /health/live [get]
func (router *Router) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondOK(w, HealthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(router.started).Seconds(),
		Modules:       len(router.registry.Entries()),
	}, time.Now())
}

// HealthReady pings the store. It fails with 503 while the store is down or
// the store circuit breaker is open.
//
// @Summary Readiness check
// @Description Returns 200 when the store answers a ping and its circuit breaker is not open, 503 otherwise.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=api.HealthStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=api.HealthStatus} "Service is not ready"
// @Router /health/ready [get]
func (router *Router) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := HealthStatus{
		Status:        "ready",
		UptimeSeconds: time.Since(router.started).Seconds(),
		Modules:       len(router.registry.Entries()),
		Database:      "connected",
		Breaker:       router.health.BreakerState(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	err := router.health.Ping(ctx)
	if err != nil {
		status.Database = "unreachable"
	}

	if err != nil || status.Breaker == "open" {
		status.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     status,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: ErrCodeUnhealthy, Message: "Store is not ready"},
		})
		return
	}
	respondOK(w, status, start)
}
