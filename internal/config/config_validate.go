// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive, got %s", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateMap() error {
	m := c.Map
	if m.MinPointSize < 1 || m.MinPointSize > m.MaxPointSize {
		return fmt.Errorf("map point size range is invalid: min=%d max=%d", m.MinPointSize, m.MaxPointSize)
	}
	if m.DefaultPointSize < m.MinPointSize || m.DefaultPointSize > m.MaxPointSize {
		return fmt.Errorf("MAP_DEFAULT_POINT_SIZE must be within [%d, %d], got %d",
			m.MinPointSize, m.MaxPointSize, m.DefaultPointSize)
	}
	if m.ScaledRadiusMeters <= 0 {
		return fmt.Errorf("MAP_SCALED_RADIUS_METERS must be positive, got %g", m.ScaledRadiusMeters)
	}
	if m.MinOpacity < 0 || m.MaxOpacity > 1 || m.MinOpacity > m.MaxOpacity {
		return fmt.Errorf("map opacity range is invalid: min=%g max=%g", m.MinOpacity, m.MaxOpacity)
	}
	if m.CenterLatitude < -90 || m.CenterLatitude > 90 {
		return fmt.Errorf("MAP_CENTER_LATITUDE out of range: %g", m.CenterLatitude)
	}
	if m.CenterLongitude < -180 || m.CenterLongitude > 180 {
		return fmt.Errorf("MAP_CENTER_LONGITUDE out of range: %g", m.CenterLongitude)
	}
	if m.DeckScriptURL == "" {
		return fmt.Errorf("MAP_DECK_SCRIPT_URL is required")
	}
	if m.S2Level < 0 || m.S2Level > 30 {
		return fmt.Errorf("MAP_S2_LEVEL must be within [0, 30], got %d", m.S2Level)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be within (0, 1], got %g", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %s", c.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
