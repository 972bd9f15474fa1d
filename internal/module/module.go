// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package module defines the contract every map module implements and the
// registry that discovers modules at startup and assigns them routes.
//
// A module chooses which aggregation to run and which of its own templates to
// render. Request parsing, the species index and route wiring are done for it
// and arrive through Context.
package module

import (
	"context"
	"html/template"
	"io/fs"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/tooltip"
)

// Document is the HTML fragment a module renders into the page layout.
type Document template.HTML

// Module is the capability set a registered module must provide.
type Module interface {
	Title() string
	Description() string
	Render(ctx context.Context, mc *Context) (Document, error)
}

// Candidate is one module offered to discovery. Impl is checked against
// Module; Templates holds the module's own *.html templates and may be nil.
type Candidate struct {
	ID        string
	Impl      any
	Templates fs.FS
}

// Context carries everything one render needs. It is built per request and
// never shared between requests.
type Context struct {
	Descriptor models.ModuleDescriptor
	Filter     models.Filter
	Params     filter.Params
	Species    models.SpeciesIndex
	S2Level    int

	Aggregator *aggregate.Aggregator
	Encoder    *encode.Encoder
	Tooltips   *tooltip.Builder
	Maps       *mapview.Assembler
	Templates  *Renderer

	// Modules lists every routable module, for navigation.
	Modules []models.ModuleDescriptor

	plotted int
}

// Query returns the aggregation query for the request filter.
func (mc *Context) Query() aggregate.Query {
	return aggregate.QueryFor(mc.Filter, mc.S2Level)
}

// Render executes one of the module's own templates.
func (mc *Context) Render(name string, data any) (Document, error) {
	return mc.Templates.Render(name, data)
}

// Scatter assembles a scatter map document and counts the plotted points.
func (mc *Context) Scatter(points []models.StyledPoint, opts mapview.ScatterOptions) (mapview.Document, error) {
	mc.plotted += len(points)
	return mc.Maps.Scatter(points, opts)
}

// Animation assembles a spread animation document and counts the plotted points.
func (mc *Context) Animation(points []models.AggregatedPoint, opts mapview.AnimationOptions) (mapview.Document, error) {
	mc.plotted += len(points)
	return mc.Maps.Animation(points, opts)
}

// EmptyMap assembles a map with no points, shown before a species is chosen.
func (mc *Context) EmptyMap() (mapview.Document, error) {
	return mc.Maps.Scatter(nil, mapview.ScatterOptionsFor(mc.Filter))
}
