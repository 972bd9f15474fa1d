// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sightmap/config.yaml",
	"/etc/sightmap/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "/data/sightmap.duckdb",
			MaxMemory:    "2GB",
			Threads:      0,
			QueryTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Map: MapConfig{
			DefaultPointSize:   6,
			MinPointSize:       2,
			MaxPointSize:       20,
			ScaledRadiusMeters: 500,
			MinOpacity:         0.5,
			MaxOpacity:         1.0,
			CenterLatitude:     65.062,
			CenterLongitude:    26.719,
			Zoom:               5,
			DeckScriptURL:      "https://unpkg.com/deck.gl@9.0.38/dist.min.js",
			TileURL:            "https://basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png",
			S2Level:            0,
		},
		Cache: CacheConfig{
			SpeciesTTL: 10 * time.Minute,
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Seed: SeedConfig{
			PredictionThreshold: 0.8,
			StartYear:           2025,
			EndYear:             2025,
			BatchSize:           100000,
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. mapped environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",

	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"map_default_point_size":   "map.default_point_size",
	"map_min_point_size":       "map.min_point_size",
	"map_max_point_size":       "map.max_point_size",
	"map_scaled_radius_meters": "map.scaled_radius_meters",
	"map_min_opacity":          "map.min_opacity",
	"map_max_opacity":          "map.max_opacity",
	"map_center_latitude":      "map.center_latitude",
	"map_center_longitude":     "map.center_longitude",
	"map_zoom":                 "map.zoom",
	"map_deck_script_url":      "map.deck_script_url",
	"map_s2_level":             "map.s2_level",

	"species_cache_ttl": "cache.species_ttl",

	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	"seed_prediction_threshold": "seed.prediction_threshold",
	"seed_start_year":           "seed.start_year",
	"seed_end_year":             "seed.end_year",
	"seed_batch_size":           "seed.batch_size",
}

// envTransformFunc maps known environment variables to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - DUCKDB_PATH -> database.path
//   - MAP_DEFAULT_POINT_SIZE -> map.default_point_size
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Defaults returns the built-in configuration without reading a file or the
// environment.
func Defaults() *Config {
	return defaultConfig()
}
