// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package main is the Sightmap web server.
//
// Sightmap renders server-side maps of species occurrence records stored in
// DuckDB. Each map is a module; modules are discovered and given a route at
// startup, then served under a supervisor tree until SIGINT or SIGTERM.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging
//  3. Database (DuckDB, schema created if missing)
//  4. Module discovery; a route collision aborts startup
//  5. Supervisor tree: species cache sweeper, HTTP server
//
// Load records with sightmap-seed before browsing:
//
//	sightmap-seed load --file observations.tsv
//	DUCKDB_PATH=/data/sightmap.duckdb ./sightmap
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/sightmap/docs" // generated swagger docs
	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/api"
	"github.com/tomtom215/sightmap/internal/cache"
	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/database"
	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/modules"
	"github.com/tomtom215/sightmap/internal/supervisor"
	"github.com/tomtom215/sightmap/internal/supervisor/services"
	"github.com/tomtom215/sightmap/internal/tooltip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Int("s2_level", cfg.Map.S2Level).
		Msg("Starting Sightmap")

	db, err := database.New(&cfg.Database, cfg.Breaker)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}

	if err := run(cfg, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Msg("Server failed")
	}

	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the pipeline to db and serves until a shutdown signal.
func run(cfg *config.Config, db *database.DB) error {
	registry := module.NewRegistry()
	if err := registry.Discover(modules.All()); err != nil {
		return fmt.Errorf("failed to discover modules: %w", err)
	}
	for _, e := range registry.Entries() {
		logging.Info().Str("module", e.Descriptor.ID).Str("route", e.Descriptor.Route).Msg("Module routable")
	}

	maps, err := mapview.New(mapview.ViewFromConfig(cfg.Map))
	if err != nil {
		return fmt.Errorf("failed to create map assembler: %w", err)
	}

	speciesCache := cache.New[models.SpeciesIndex]("species-cache", cfg.Cache.SpeciesTTL)
	pipeline := &module.Pipeline{
		Aggregator: aggregate.New(db, speciesCache),
		Encoder:    encode.New(cfg.Map),
		Tooltips:   tooltip.New(),
		Maps:       maps,
		Defaults:   filter.DefaultsFromConfig(cfg.Map),
		S2Level:    cfg.Map.S2Level,
	}

	router := api.NewRouter(registry, pipeline, db, api.ChiMiddlewareConfigFrom(cfg.Security))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(speciesCache)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor tree stopped: %w", serveErr)
	}
	return nil
}
