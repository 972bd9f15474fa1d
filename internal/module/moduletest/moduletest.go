// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package moduletest builds a module pipeline over a test store and renders
// single modules through it.
package moduletest

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/cache"
	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/tooltip"
)

// NewPipeline wires the default map configuration to store.
func NewPipeline(t *testing.T, store aggregate.Store) *module.Pipeline {
	t.Helper()

	cfg := config.Defaults().Map
	maps, err := mapview.New(mapview.ViewFromConfig(cfg))
	if err != nil {
		t.Fatalf("failed to create map assembler: %v", err)
	}

	return &module.Pipeline{
		Aggregator: aggregate.New(store, cache.New[models.SpeciesIndex]("species-cache", time.Minute)),
		Encoder:    encode.New(cfg),
		Tooltips:   tooltip.New(),
		Maps:       maps,
		Defaults:   filter.DefaultsFromConfig(cfg),
		S2Level:    cfg.S2Level,
	}
}

// Render registers candidate alone and renders it for the raw query string.
func Render(t *testing.T, p *module.Pipeline, candidate module.Candidate, rawQuery string) (module.Document, error) {
	t.Helper()

	reg := module.NewRegistry()
	if err := reg.Discover([]module.Candidate{candidate}); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	entries := reg.Entries()
	if len(entries) != 1 {
		t.Fatalf("candidate %q was not registered", candidate.ID)
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("bad query %q: %v", rawQuery, err)
	}
	return p.Render(context.Background(), entries[0], values, reg)
}
