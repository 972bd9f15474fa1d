// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package models

import "time"

// SpatialKey identifies one aggregation group. Cell is the S2 cell id when
// regional binning is active and 0 for raw coordinate grouping.
type SpatialKey struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cell      uint64  `json:"cell,omitempty"`
}

// AggregatedPoint summarises every filtered record sharing one SpatialKey.
// Day is set only by per-day queries.
type AggregatedPoint struct {
	Key          SpatialKey `json:"key"`
	Count        int64      `json:"count"`
	Species      []string   `json:"species"`
	UnnamedCount int64      `json:"unnamed_count"`
	SpeciesCount int64      `json:"species_count,omitempty"`
	Earliest     *time.Time `json:"earliest,omitempty"`
	Latest       *time.Time `json:"latest,omitempty"`
	MinDay       *int       `json:"min_day,omitempty"`
	Day          int        `json:"day,omitempty"`
}

// RadiusUnits is the deck.gl unit a StyledPoint radius is expressed in.
type RadiusUnits string

const (
	RadiusPixels RadiusUnits = "pixels"
	RadiusMeters RadiusUnits = "meters"
)

// RGBA is a color with 0-255 channels.
type RGBA [4]uint8

// StyledPoint is an AggregatedPoint with its resolved presentation.
type StyledPoint struct {
	AggregatedPoint
	Color       RGBA        `json:"color"`
	Opacity     float64     `json:"opacity"`
	Radius      float64     `json:"radius"`
	RadiusUnits RadiusUnits `json:"radius_units"`
	Tooltip     string      `json:"tooltip"`
}

// HistogramBucket is one week of the records-per-week chart.
type HistogramBucket struct {
	Week      time.Time `json:"week"`
	Label     string    `json:"label"`
	Count     int64     `json:"count"`
	HeightPct float64   `json:"height_pct"`
	Color     string    `json:"color,omitempty"`
}

// ModuleDescriptor is the immutable identity of a registered module.
type ModuleDescriptor struct {
	ID          string `json:"id" validate:"required,module_id,max=64"`
	Title       string `json:"title" validate:"required,trimmed,max=120"`
	Description string `json:"description" validate:"required,trimmed,max=500"`
	Route       string `json:"route"`
}
