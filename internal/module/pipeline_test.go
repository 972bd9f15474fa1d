// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/module/moduletest"
	"github.com/tomtom215/sightmap/internal/testinfra"
)

// countModule reports what its context saw.
type countModule struct{}

func (countModule) Title() string       { return "Counts" }
func (countModule) Description() string { return "Prints the aggregated counts" }
func (countModule) Render(ctx context.Context, mc *module.Context) (module.Document, error) {
	points, err := mc.Aggregator.Points(ctx, mc.Query())
	if err != nil {
		return "", err
	}
	styled := mc.Encoder.Encode(points, mc.Filter, encode.Options{Label: mc.Tooltips.Point})
	if _, err := mc.Scatter(styled, mapview.ScatterOptionsFor(mc.Filter)); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "species=%s size=%d scaled=%t known=%d nav=%d",
		strings.Join(mc.Filter.Species, "|"), mc.Filter.PointSize, mc.Filter.ScaleWithMap,
		len(mc.Species.Names), len(mc.Modules))
	for _, p := range styled {
		fmt.Fprintf(&b, " %.3f,%.3f=%d", p.Key.Latitude, p.Key.Longitude, p.Count)
	}
	return module.Document(b.String()), nil
}

var counts = module.Candidate{ID: "counts", Impl: countModule{}}

func TestPipeline_Render(t *testing.T) {
	store := testinfra.NewStore(t)
	testinfra.Seed(t, store,
		testinfra.Sighting("Sylvia communis", 61.677, 29.645),
		testinfra.Sighting("Sylvia communis", 61.677, 29.645),
		testinfra.Sighting("Turdus merula", 60.0, 25.0),
		testinfra.Unplottable("Turdus merula"),
	)
	p := moduletest.NewPipeline(t, store)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no filter",
			query: "",
			want:  "species= size=6 scaled=false known=2 nav=1 60.000,25.000=1 61.677,29.645=2",
		},
		{
			name:  "species filter",
			query: "species=Turdus+merula&point_size=12&scale_with_map=on",
			want:  "species=Turdus merula size=12 scaled=true known=2 nav=1 60.000,25.000=1",
		},
		{
			name:  "malformed input falls back to defaults",
			query: "species=Nonexistent&point_size=huge",
			want:  "species= size=6 scaled=false known=2 nav=1 60.000,25.000=1 61.677,29.645=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := moduletest.Render(t, p, counts, tt.query)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if string(doc) != tt.want {
				t.Errorf("Render() = %q\nwant      %q", doc, tt.want)
			}
		})
	}
}

func TestPipeline_StoreDown(t *testing.T) {
	p := moduletest.NewPipeline(t, testinfra.FailingStore{})
	_, err := moduletest.Render(t, p, counts, "")
	if !errors.Is(err, aggregate.ErrDataUnavailable) {
		t.Errorf("Render() error = %v, want ErrDataUnavailable", err)
	}
}
