// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package models defines the data types shared by the store, the map
// pipeline and the HTTP layer.
package models

import "time"

// OccurrenceRecord is one row of species_sightings. Every field except ID may
// be absent; a record without both coordinates is never plotted.
type OccurrenceRecord struct {
	ID              string     `json:"id"`
	Species         *string    `json:"species,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	Time            *time.Time `json:"time,omitempty"`
	DayOfYear       *int       `json:"day_of_year,omitempty"`
	Year            *int       `json:"year,omitempty"`
	RecordingType   *string    `json:"recording_type,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	Feedback        *string    `json:"feedback,omitempty"`
	UserID          *string    `json:"user_id,omitempty"`
	Generalization  *int       `json:"generalization,omitempty"`
}

// Plottable reports whether the record has both coordinates.
func (r *OccurrenceRecord) Plottable() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Filter is the per-request selection resolved from query parameters.
// An empty Species slice means every species.
type Filter struct {
	Species      []string `json:"species"`
	PointSize    int      `json:"point_size"`
	ScaleWithMap bool     `json:"scale_with_map"`
}

// AllSpecies reports whether the filter selects the whole dataset.
func (f Filter) AllSpecies() bool {
	return len(f.Species) == 0
}

// Selected reports whether name is part of the selection.
func (f Filter) Selected(name string) bool {
	for _, s := range f.Species {
		if s == name {
			return true
		}
	}
	return false
}

// Single returns the first selected species, for views that plot one species.
func (f Filter) Single() (string, bool) {
	if len(f.Species) == 0 {
		return "", false
	}
	return f.Species[0], true
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// SpeciesIndex lists every species in the unfiltered dataset, most recorded first.
type SpeciesIndex struct {
	Names   []string         `json:"names"`
	Counts  map[string]int64 `json:"counts"`
	Total   int64            `json:"total"`
	Unnamed int64            `json:"unnamed"`
}

// Empty reports whether the dataset has no named species at all.
func (s SpeciesIndex) Empty() bool {
	return len(s.Names) == 0
}

// Known reports whether name appears in the index.
func (s SpeciesIndex) Known(name string) bool {
	_, ok := s.Counts[name]
	return ok
}

// Proportion is the species' share of all records, 0 when the dataset is empty.
func (s SpeciesIndex) Proportion(name string) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[name]) / float64(s.Total)
}
