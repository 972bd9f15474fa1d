// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module

import (
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
)

// Page is the view data shared by every module template. Modules embed it
// in their own view struct and add their controls.
type Page struct {
	Descriptor models.ModuleDescriptor
	Filter     models.Filter
	Params     filter.Params
	Species    models.SpeciesIndex

	// Map is the assembled map document, shown in an iframe.
	Map       mapview.Document
	Histogram []models.HistogramBucket

	// Records is the number of records behind the plotted points; Cells the
	// number of points.
	Records int64
	Cells   int
}

// Page starts the view data for the current request.
func (mc *Context) Page() Page {
	return Page{
		Descriptor: mc.Descriptor,
		Filter:     mc.Filter,
		Params:     mc.Params,
		Species:    mc.Species,
	}
}

// NoData reports that the store holds no named species yet.
func (p Page) NoData() bool {
	return p.Species.Empty()
}

// Current is the species a single-species view plots, "" before one is chosen.
func (p Page) Current() string {
	name, _ := p.Filter.Single()
	return name
}

// Checked reports whether name was explicitly selected.
func (p Page) Checked(name string) bool {
	return p.Filter.Selected(name)
}

// Count is the unfiltered record count of name.
func (p Page) Count(name string) int64 {
	return p.Species.Counts[name]
}

// Tally sums the counts of points into Records and Cells.
func (p *Page) Tally(points []models.AggregatedPoint) {
	p.Cells = len(points)
	p.Records = 0
	for _, pt := range points {
		p.Records += pt.Count
	}
}
