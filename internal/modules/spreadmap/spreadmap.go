// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package spreadmap animates one species through the year: each location
// lights up on the day it was recorded and fades out over the following days.
package spreadmap

import (
	"context"
	"embed"
	"io/fs"

	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/module"
)

// ID is the module identifier.
const ID = "spread_map"

// Animation controls.
const (
	DefaultFadeDays = 14
	MinFadeDays     = 1
	MaxFadeDays     = 60

	// Speed is in days per second.
	DefaultSpeed = 20
	MinSpeed     = 5
	MaxSpeed     = 100
)

//go:embed templates/*.html
var templateFS embed.FS

type Module struct{}

func Candidate() module.Candidate {
	sub, _ := fs.Sub(templateFS, "templates")
	return module.Candidate{ID: ID, Impl: Module{}, Templates: sub}
}

func (Module) Title() string { return "Spread Map" }

func (Module) Description() string {
	return "Animated map showing how a species spreads through the year"
}

type view struct {
	module.Page
	FadeDays int
	Speed    int
}

func (Module) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	v := view{
		Page:     mc.Page(),
		FadeDays: mc.Params.Int("fade_days", DefaultFadeDays, MinFadeDays, MaxFadeDays),
		Speed:    mc.Params.Int("speed", DefaultSpeed, MinSpeed, MaxSpeed),
	}
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
	points, err := mc.Aggregator.DailyPoints(ctx, q)
	if err != nil {
		return "", err
	}

	radius, _ := mc.Encoder.Radius(mc.Filter)
	v.Map, err = mc.Animation(points, mapview.AnimationOptions{
		Title:        species,
		PointSize:    mc.Filter.PointSize,
		ScaleWithMap: mc.Filter.ScaleWithMap,
		RadiusMeters: radius,
		FadeDays:     v.FadeDays,
		Speed:        v.Speed,
		Color:        encode.Cyan,
	})
	if err != nil {
		return "", err
	}
	v.Tally(points)
	return mc.Render("view.html", v)
}
