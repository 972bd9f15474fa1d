// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package speciesmap plots one species in a fixed color, with opacity rising
// with the record count at each location.
package speciesmap

import (
	"context"
	"embed"
	"io/fs"

	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/module"
)

// ID is the module identifier.
const ID = "species_map"

//go:embed templates/*.html
var templateFS embed.FS

type Module struct{}

func Candidate() module.Candidate {
	sub, _ := fs.Sub(templateFS, "templates")
	return module.Candidate{ID: ID, Impl: Module{}, Templates: sub}
}

func (Module) Title() string       { return "Species Map" }
func (Module) Description() string { return "Fixed-color scatter plot of species observations" }

type view struct {
	module.Page
	Opacity float64
}

func (Module) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	v := view{Page: mc.Page(), Opacity: mc.Params.Float("opacity", mc.Encoder.Range().Min, 0, 1)}
	if v.NoData() {
		return mc.Render("view.html", v)
	}

	species := v.Current()
	if species == "" {
		var err error
		if v.Map, err = mc.EmptyMap(); err != nil {
			return "", err
		}
		return mc.Render("view.html", v)
	}

	q := mc.Query()
	q.Species = []string{species}
	points, err := mc.Aggregator.Points(ctx, q)
	if err != nil {
		return "", err
	}

	styled := mc.Encoder.Encode(points, mc.Filter, encode.Options{
		Palette: encode.Fixed{RGB: encode.Cyan},
		Opacity: mc.Encoder.From(v.Opacity),
		Label:   mc.Tooltips.Point,
	})
	if v.Map, err = mc.Scatter(styled, mapview.ScatterOptionsFor(mc.Filter)); err != nil {
		return "", err
	}
	v.Tally(points)
	return mc.Render("view.html", v)
}
