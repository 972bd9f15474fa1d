// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package config loads Sightmap configuration from defaults, an optional YAML
// file and environment variables (in that order of precedence, lowest first).
package config

import (
	"time"
)

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Map      MapConfig      `koanf:"map"`
	Cache    CacheConfig    `koanf:"cache"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Seed     SeedConfig     `koanf:"seed"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`       // 0 = runtime.NumCPU()
	QueryTimeout time.Duration `koanf:"query_timeout"` // per-request store deadline
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MapConfig holds the map presentation defaults shared by every module.
type MapConfig struct {
	DefaultPointSize   int     `koanf:"default_point_size"`
	MinPointSize       int     `koanf:"min_point_size"`
	MaxPointSize       int     `koanf:"max_point_size"`
	ScaledRadiusMeters float64 `koanf:"scaled_radius_meters"`
	MinOpacity         float64 `koanf:"min_opacity"`
	MaxOpacity         float64 `koanf:"max_opacity"`
	CenterLatitude     float64 `koanf:"center_latitude"`
	CenterLongitude    float64 `koanf:"center_longitude"`
	Zoom               float64 `koanf:"zoom"`
	DeckScriptURL      string  `koanf:"deck_script_url"`
	TileURL            string  `koanf:"tile_url"` // basemap raster tiles, {z}/{x}/{y}
	S2Level            int     `koanf:"s2_level"` // 0 = raw coordinate grouping
}

// CacheConfig holds the species index cache settings.
type CacheConfig struct {
	SpeciesTTL time.Duration `koanf:"species_ttl"`
}

// BreakerConfig holds the store circuit breaker settings.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SeedConfig holds defaults for the seed loader.
type SeedConfig struct {
	PredictionThreshold float64 `koanf:"prediction_threshold"`
	StartYear           int     `koanf:"start_year"`
	EndYear             int     `koanf:"end_year"`
	BatchSize           int     `koanf:"batch_size"`
}

// Load is the entry point used by both binaries.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
