// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package overview plots every selected species at once, one point per
// location, with a weekly histogram of the same selection.
package overview

import (
	"context"
	"embed"
	"io/fs"

	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/tooltip"
)

// ID is the module identifier; the page is served at /m/overview.
const ID = "overview"

// Color modes.
const (
	ColorSingle  = "single"
	ColorSpecies = "species"
	// ColorCount ramps from blue to red with the record count.
	ColorCount = "count"
)

// ColorModes lists the accepted color_mode values, default first.
var ColorModes = []string{ColorSingle, ColorSpecies, ColorCount}

//go:embed templates/*.html
var templateFS embed.FS

// Module is the overview map.
type Module struct{}

// Candidate returns the module for discovery.
func Candidate() module.Candidate {
	sub, _ := fs.Sub(templateFS, "templates")
	return module.Candidate{ID: ID, Impl: Module{}, Templates: sub}
}

func (Module) Title() string { return "Overview" }

func (Module) Description() string {
	return "All selected species on one map, colored as one layer or per species"
}

type legendEntry struct {
	Name  string
	Color string
}

type view struct {
	module.Page
	ColorMode string
	Opacity   float64
	Legend    []legendEntry
}

func (Module) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	v := view{
		Page:      mc.Page(),
		ColorMode: mc.Params.Choice("color_mode", ColorSingle, ColorModes...),
		Opacity:   mc.Params.Float("opacity", mc.Encoder.Range().Min, 0, 1),
	}
	if v.NoData() {
		return mc.Render("view.html", v)
	}

	q := mc.Query()
	points, err := mc.Aggregator.Points(ctx, q)
	if err != nil {
		return "", err
	}
	histogram, err := mc.Aggregator.WeeklyHistogram(ctx, q)
	if err != nil {
		return "", err
	}

	styled := mc.Encoder.Encode(points, mc.Filter, Options(mc.Species.Names, v.ColorMode, mc.Encoder.From(v.Opacity), mc.Tooltips))
	if v.ColorMode == ColorSpecies {
		v.Legend = legend(mc.Species.Names, mc.Filter)
	}

	v.Map, err = mc.Scatter(styled, mapview.ScatterOptionsFor(mc.Filter))
	if err != nil {
		return "", err
	}
	v.Histogram = histogram
	v.Tally(points)
	return mc.Render("view.html", v)
}

// Options returns the encoding used by the overview map, shared with the
// points API so both style identically.
func Options(species []string, colorMode string, opacity encode.OpacityRange, labels *tooltip.Builder) encode.Options {
	var palette encode.Palette
	switch colorMode {
	case ColorSpecies:
		palette = encode.NewSpeciesPalette(species)
	case ColorCount:
		palette = encode.CountRamp{}
	default:
		palette = encode.Fixed{RGB: encode.Orange}
	}
	return encode.Options{
		Palette: palette,
		Opacity: opacity,
		Label:   labels.Cell,
	}
}

func legend(names []string, f models.Filter) []legendEntry {
	palette := encode.NewSpeciesPalette(names)
	var out []legendEntry
	for _, name := range names {
		if !f.AllSpecies() && !f.Selected(name) {
			continue
		}
		out = append(out, legendEntry{Name: name, Color: encode.CSS(palette.ColorOf(name))})
	}
	return out
}
