// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package proportionmap shows where one species is over- or
// under-represented: at each location where it was recorded, its share of
// all records there is compared with its share of the whole dataset.
package proportionmap

import (
	"context"
	"embed"
	"io/fs"

	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/module"
)

// ID is the module identifier.
const ID = "proportion_map"

// PointAlpha is the fixed alpha of every point.
const PointAlpha = 200

//go:embed templates/*.html
var templateFS embed.FS

type Module struct{}

func Candidate() module.Candidate {
	sub, _ := fs.Sub(templateFS, "templates")
	return module.Candidate{ID: ID, Impl: Module{}, Templates: sub}
}

func (Module) Title() string { return "Proportion Map" }

func (Module) Description() string {
	return "Rainbow-colored map showing species proportion relative to expected"
}

type view struct {
	module.Page
	Expected float64
	RatioCap float64
}

func (Module) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	v := view{Page: mc.Page(), RatioCap: encode.RatioCap}
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

	ramp := encode.NewRatioRamp(mc.Species.Proportion(species))
	v.Expected = ramp.Expected

	points, err := mc.Aggregator.ProportionPoints(ctx, species, nil)
	if err != nil {
		return "", err
	}

	styled := mc.Encoder.Encode(points, mc.Filter, encode.Options{
		Palette: ramp,
		Opacity: encode.Constant(encode.Alpha(PointAlpha)),
		Label: func(p models.AggregatedPoint) string {
			return mc.Tooltips.Proportion(p.SpeciesCount, p.Count, ramp.Ratio(p))
		},
	})
	if v.Map, err = mc.Scatter(styled, mapview.ScatterOptionsFor(mc.Filter)); err != nil {
		return "", err
	}

	v.Cells = len(points)
	for _, p := range points {
		v.Records += p.SpeciesCount
	}
	return mc.Render("view.html", v)
}
