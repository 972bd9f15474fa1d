// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package query builds parameterized WHERE clauses over species_sightings.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates AND-joined predicates and their bind arguments.
//
//	wb := query.NewWhereBuilder().AddCoordinatesPresent().AddSpecies(names)
//	where, args := wb.Build()
//	// latitude IS NOT NULL AND longitude IS NOT NULL AND species_name IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw predicate with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds "column IN (?, ...)". An empty list adds nothing.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// AddSpecies restricts to the named species. Empty means every species,
// including records without a species name.
func (wb *WhereBuilder) AddSpecies(species []string) *WhereBuilder {
	return wb.AddIn("species_name", species)
}

// AddCoordinatesPresent excludes records that cannot be plotted.
func (wb *WhereBuilder) AddCoordinatesPresent() *WhereBuilder {
	wb.clauses = append(wb.clauses, "latitude IS NOT NULL AND longitude IS NOT NULL")
	return wb
}

// AddBounds restricts to a bounding box. A box whose west edge is east of its
// east edge is treated as crossing the antimeridian.
func (wb *WhereBuilder) AddBounds(south, west, north, east float64) *WhereBuilder {
	wb.clauses = append(wb.clauses, "latitude BETWEEN ? AND ?")
	wb.args = append(wb.args, south, north)
	if west <= east {
		wb.clauses = append(wb.clauses, "longitude BETWEEN ? AND ?")
	} else {
		wb.clauses = append(wb.clauses, "(longitude >= ? OR longitude <= ?)")
	}
	wb.args = append(wb.args, west, east)
	return wb
}

// AddYearRange restricts to records whose year lies in [from, to]. Zero skips a bound.
func (wb *WhereBuilder) AddYearRange(from, to int) *WhereBuilder {
	if from > 0 {
		wb.AddClause("year >= ?", from)
	}
	if to > 0 {
		wb.AddClause("year <= ?", to)
	}
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", []) when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
