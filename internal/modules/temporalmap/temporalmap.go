// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package temporalmap colors each location of one species by the earliest
// day of year it was recorded there, with a weekly histogram in the same
// colors.
package temporalmap

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
const ID = "temporal_map"

// PointAlpha is the fixed alpha of every point.
const PointAlpha = 200

//go:embed templates/*.html
var templateFS embed.FS

type Module struct{}

func Candidate() module.Candidate {
	sub, _ := fs.Sub(templateFS, "templates")
	return module.Candidate{ID: ID, Impl: Module{}, Templates: sub}
}

func (Module) Title() string       { return "Temporal Map" }
func (Module) Description() string { return "Day-of-year colored map with weekly histogram" }

type view struct {
	module.Page
	LastColoredDay int
}

func (Module) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	v := view{Page: mc.Page(), LastColoredDay: encode.LastColoredDay}
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
	histogram, err := mc.Aggregator.WeeklyHistogram(ctx, q)
	if err != nil {
		return "", err
	}

	styled := mc.Encoder.Encode(points, mc.Filter, encode.Options{
		Palette: encode.DayOfYearRamp{},
		Opacity: encode.Constant(encode.Alpha(PointAlpha)),
		Label:   mc.Tooltips.Point,
	})
	if v.Map, err = mc.Scatter(styled, mapview.ScatterOptionsFor(mc.Filter)); err != nil {
		return "", err
	}

	v.Histogram = ColorWeeks(histogram)
	v.Tally(points)
	return mc.Render("view.html", v)
}

// ColorWeeks colors each bucket by the day of year its week starts on.
func ColorWeeks(buckets []models.HistogramBucket) []models.HistogramBucket {
	for i := range buckets {
		buckets[i].Color = encode.CSS(encode.DayColor(buckets[i].Week.YearDay()))
	}
	return buckets
}
