// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package tooltip formats the hover label of a map point. Missing dates and
// species are replaced by placeholders; formatting never fails.
package tooltip

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/sightmap/internal/models"
)

// Placeholders for absent values.
const (
	UnknownDate    = "unknown"
	UnknownSpecies = "unknown species"
)

// DateLayout is the date format used in every label.
const DateLayout = "2006-01-02"

// Builder formats labels. The zero value is ready to use.
type Builder struct{}

// New returns a Builder.
func New() *Builder {
	return &Builder{}
}

// Records formats "N records" and the date range:
//
//	12 records
//	2025-04-02 — 2025-06-30
func (b *Builder) Records(count int64, earliest, latest *time.Time) string {
	return fmt.Sprintf("%d records\n%s", count, DateRange(earliest, latest))
}

// Cell formats a multi-species cell:
//
//	12 records | 2 species
//	Parus major, Sylvia communis
//	2025-04-02 — 2025-06-30
//
// Species are sorted. Records without a species are appended as "+ N unnamed".
func (b *Builder) Cell(p models.AggregatedPoint) string {
	header := fmt.Sprintf("%d records | %d species", p.Count, len(p.Species))
	return header + "\n" + speciesLine(p) + "\n" + DateRange(p.Earliest, p.Latest)
}

// Point formats the label for the common single-species case using the
// point's own count and dates.
func (b *Builder) Point(p models.AggregatedPoint) string {
	return b.Records(p.Count, p.Earliest, p.Latest)
}

// Proportion formats a species share and its ratio to the expected share:
//
//	3/12 records (25.0%)
//	2.5× expected
func (b *Builder) Proportion(speciesCount, total int64, ratio float64) string {
	share := 0.0
	if total > 0 {
		share = float64(speciesCount) / float64(total)
	}
	return fmt.Sprintf("%d/%d records (%.1f%%)\n%.1f× expected", speciesCount, total, share*100, ratio)
}

// DateRange formats "earliest — latest", substituting UnknownDate for nil.
func DateRange(earliest, latest *time.Time) string {
	return formatDate(earliest) + " — " + formatDate(latest)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return UnknownDate
	}
	return t.Format(DateLayout)
}

func speciesLine(p models.AggregatedPoint) string {
	if len(p.Species) == 0 {
		if p.UnnamedCount > 0 {
			return fmt.Sprintf("%s (%d)", UnknownSpecies, p.UnnamedCount)
		}
		return UnknownSpecies
	}
	names := append([]string(nil), p.Species...)
	sort.Strings(names)
	line := strings.Join(names, ", ")
	if p.UnnamedCount > 0 {
		line += fmt.Sprintf(" + %d unnamed", p.UnnamedCount)
	}
	return line
}
