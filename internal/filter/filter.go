// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package filter turns page query parameters into a models.Filter and typed
// module options. Malformed input always degrades to a default; nothing here
// returns an error.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
)

// Query parameter names shared by every module.
const (
	ParamSpecies      = "species"
	ParamPointSize    = "point_size"
	ParamScaleWithMap = "scale_with_map"
)

// Defaults are the fallback map controls.
type Defaults struct {
	PointSize    int
	MinPointSize int
	MaxPointSize int
}

// DefaultDefaults matches the built-in map configuration.
func DefaultDefaults() Defaults {
	return Defaults{PointSize: 6, MinPointSize: 2, MaxPointSize: 20}
}

// DefaultsFromConfig reads the map controls from configuration.
func DefaultsFromConfig(m config.MapConfig) Defaults {
	return Defaults{
		PointSize:    m.DefaultPointSize,
		MinPointSize: m.MinPointSize,
		MaxPointSize: m.MaxPointSize,
	}
}

// Resolve builds the request filter.
//
// Species names not in known are dropped; when none survive the filter selects
// every species. Duplicates are removed and request order is kept, so the first
// requested species is the one single-species views plot.
func Resolve(values url.Values, known []string, d Defaults) models.Filter {
	return models.Filter{
		Species:      resolveSpecies(values[ParamSpecies], known),
		PointSize:    clampInt(parseInt(values.Get(ParamPointSize), d.PointSize), d.MinPointSize, d.MaxPointSize),
		ScaleWithMap: ParseBool(values.Get(ParamScaleWithMap)),
	}
}

func resolveSpecies(requested, known []string) []string {
	if len(requested) == 0 {
		return nil
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(requested))
	var out []string
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := knownSet[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ParseBool accepts on, true, 1 and yes in any case. Everything else is false,
// including an absent parameter, which is how an unchecked HTML checkbox arrives.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func parseInt(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
