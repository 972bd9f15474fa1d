// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package encode

import (
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
)

func testEncoder() *Encoder {
	return New(config.MapConfig{MinOpacity: 0.2, MaxOpacity: 1.0, ScaledRadiusMeters: 500})
}

func pointsWithCounts(counts ...int64) []models.AggregatedPoint {
	points := make([]models.AggregatedPoint, len(counts))
	for i, c := range counts {
		points[i] = models.AggregatedPoint{
			Key:   models.SpatialKey{Latitude: 60 + float64(i), Longitude: 25},
			Count: c,
		}
	}
	return points
}

func TestScale(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		count int64
		want  float64
	}{
		{"empty range", Scale{}, 5, 0},
		{"flat range", Scale{Min: 3, Max: 3}, 3, 0},
		{"minimum", Scale{Min: 1, Max: 100}, 1, 0},
		{"maximum", Scale{Min: 1, Max: 100}, 100, 1},
		{"below range clamps", Scale{Min: 10, Max: 100}, 1, 0},
		{"above range clamps", Scale{Min: 1, Max: 100}, 1000, 1},
		{"log midpoint", Scale{Min: 1, Max: 3}, 2, math.Log(2) / math.Log(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scale.T(tt.count)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("T(%d) = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}

func TestScale_IsCompressive(t *testing.T) {
	s := Scale{Min: 1, Max: 10000}
	if got := s.T(100); got < 0.4 {
		t.Errorf("T(100) = %v; a log scale should place 100 of 10000 near the middle", got)
	}
}

func TestEncode_EndToEndExample(t *testing.T) {
	points := []models.AggregatedPoint{
		{Key: models.SpatialKey{Latitude: 61.677, Longitude: 29.645}, Count: 2},
		{Key: models.SpatialKey{Latitude: 60.0, Longitude: 25.0}, Count: 1},
	}
	styled := testEncoder().Encode(points, models.Filter{PointSize: 6}, Options{})

	if styled[0].Opacity <= styled[1].Opacity {
		t.Errorf("count-2 opacity %v should exceed count-1 opacity %v", styled[0].Opacity, styled[1].Opacity)
	}
	if styled[0].Count != 2 || styled[1].Count != 1 {
		t.Error("encoding must not change counts")
	}
}

func TestEncode_Monotonic(t *testing.T) {
	counts := []int64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 1000}
	styled := testEncoder().Encode(pointsWithCounts(counts...), models.Filter{PointSize: 6}, Options{})

	for i := 1; i < len(styled); i++ {
		prev, cur := styled[i-1], styled[i]
		if cur.Opacity < prev.Opacity {
			t.Errorf("opacity decreased from count %d to %d", prev.Count, cur.Count)
		}
		// Warmer along the blue-to-red ramp: red never falls, blue never rises.
		if cur.Color[0] < prev.Color[0] || cur.Color[2] > prev.Color[2] {
			t.Errorf("color for count %d (%v) is cooler than for %d (%v)",
				cur.Count, cur.Color, prev.Count, prev.Color)
		}
	}
	first, last := styled[0], styled[len(styled)-1]
	if first.Color != (models.RGBA{0, 0, 255, first.Color[3]}) {
		t.Errorf("lowest count color = %v, want blue", first.Color)
	}
	if last.Color != (models.RGBA{255, 0, 0, 255}) {
		t.Errorf("highest count color = %v, want opaque red", last.Color)
	}
}

func TestEncode_EqualCountsEqualStyle(t *testing.T) {
	points := pointsWithCounts(7, 3, 7, 1, 7)
	styled := testEncoder().Encode(points, models.Filter{PointSize: 6}, Options{})

	for _, i := range []int{2, 4} {
		if styled[i].Color != styled[0].Color || styled[i].Opacity != styled[0].Opacity {
			t.Errorf("point %d styled %v/%v, want %v/%v", i,
				styled[i].Color, styled[i].Opacity, styled[0].Color, styled[0].Opacity)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	points := pointsWithCounts(4, 9, 1, 16)
	e := testEncoder()
	label := func(p models.AggregatedPoint) string { return "x" }

	a := e.Encode(points, models.Filter{PointSize: 6}, Options{Label: label})
	b := e.Encode(points, models.Filter{PointSize: 6}, Options{Label: label})
	if !reflect.DeepEqual(a, b) {
		t.Error("two encodings of the same input differ")
	}
	for i := range a {
		if a[i].Key != points[i].Key {
			t.Errorf("output order differs from input at %d", i)
		}
	}
}

func TestEncode_EdgeCases(t *testing.T) {
	e := testEncoder()

	if got := e.Encode(nil, models.Filter{}, Options{}); len(got) != 0 {
		t.Errorf("Encode(nil) returned %d points", len(got))
	}

	flat := e.Encode(pointsWithCounts(5, 5, 5), models.Filter{PointSize: 6}, Options{})
	for _, sp := range flat {
		if sp.Opacity != 0.2 {
			t.Errorf("flat counts opacity = %v, want minimum 0.2", sp.Opacity)
		}
		if math.IsNaN(sp.Opacity) {
			t.Error("opacity is NaN")
		}
	}
}

func TestEncode_Radius(t *testing.T) {
	e := testEncoder()
	points := pointsWithCounts(1, 10)

	fixed := e.Encode(points, models.Filter{PointSize: 9}, Options{})
	scaled := e.Encode(points, models.Filter{PointSize: 9, ScaleWithMap: true}, Options{})

	for i := range points {
		if fixed[i].Radius != 9 || fixed[i].RadiusUnits != models.RadiusPixels {
			t.Errorf("fixed radius = %v %s, want 9 pixels", fixed[i].Radius, fixed[i].RadiusUnits)
		}
		if scaled[i].Radius != 500 || scaled[i].RadiusUnits != models.RadiusMeters {
			t.Errorf("scaled radius = %v %s, want 500 meters", scaled[i].Radius, scaled[i].RadiusUnits)
		}
		if fixed[i].Count != scaled[i].Count || fixed[i].Color != scaled[i].Color {
			t.Error("radius mode must not change counts or color")
		}
	}
}

func TestEncode_OptionsOverride(t *testing.T) {
	points := pointsWithCounts(1, 50)
	styled := testEncoder().Encode(points, models.Filter{PointSize: 6}, Options{
		Palette: Fixed{RGB: Cyan},
		Opacity: Constant(Alpha(200)),
	})
	for _, sp := range styled {
		if sp.Color != (models.RGBA{38, 194, 255, 200}) {
			t.Errorf("Color = %v, want cyan with alpha 200", sp.Color)
		}
	}
}

func TestEncode_OpacityFromConfig(t *testing.T) {
	e := New(config.MapConfig{MinOpacity: 0.3, MaxOpacity: 0.6})
	points := pointsWithCounts(1, 10, 100)

	tests := []struct {
		name     string
		opacity  OpacityRange
		wantLow  float64
		wantHigh float64
	}{
		{"defaults", OpacityRange{}, 0.3, 0.6},
		{"zero max takes configured max", OpacityRange{Min: 0.1}, 0.1, 0.6},
		{"min above max is clamped", OpacityRange{Min: 0.9}, 0.6, 0.6},
		{"explicit range", OpacityRange{Min: 0.2, Max: 0.4}, 0.2, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styled := e.Encode(points, models.Filter{PointSize: 6}, Options{Opacity: tt.opacity})
			low, high := styled[0].Opacity, styled[len(styled)-1].Opacity
			if math.Abs(low-tt.wantLow) > 1e-9 || math.Abs(high-tt.wantHigh) > 1e-9 {
				t.Errorf("opacity range = [%v, %v], want [%v, %v]", low, high, tt.wantLow, tt.wantHigh)
			}
		})
	}

	if got := e.Range(); got != (OpacityRange{Min: 0.3, Max: 0.6}) {
		t.Errorf("Range() = %+v", got)
	}

	// A zero opacity control still tops out at the configured maximum.
	styled := e.Encode(points, models.Filter{PointSize: 6}, Options{Opacity: e.From(0)})
	if styled[0].Opacity != 0 || math.Abs(styled[2].Opacity-0.6) > 1e-9 {
		t.Errorf("From(0) range = [%v, %v], want [0, 0.6]", styled[0].Opacity, styled[2].Opacity)
	}
}

func TestSpeciesPalette(t *testing.T) {
	p := NewSpeciesPalette([]string{"Turdus merula", "Parus major", "Sylvia communis"})
	q := NewSpeciesPalette([]string{"Sylvia communis", "Turdus merula", "Parus major"})

	// The first sorted name gets hue 0: HLS(0, 0.6, 0.9).
	if got := p.ColorOf("Parus major"); got != (models.RGBA{244, 61, 61, 255}) {
		t.Errorf("ColorOf(first) = %v", got)
	}
	for _, name := range []string{"Parus major", "Sylvia communis", "Turdus merula"} {
		if p.ColorOf(name) != q.ColorOf(name) {
			t.Errorf("color of %s depends on input order", name)
		}
	}
	if p.ColorOf("Parus major") == p.ColorOf("Sylvia communis") {
		t.Error("distinct species should get distinct colors")
	}
	if p.ColorOf("Dodo") != Orange {
		t.Error("unknown species should use the fallback color")
	}

	single := models.AggregatedPoint{Species: []string{"Sylvia communis"}}
	mixed := models.AggregatedPoint{Species: []string{"Parus major", "Sylvia communis"}}
	withUnnamed := models.AggregatedPoint{Species: []string{"Sylvia communis"}, UnnamedCount: 1}
	if p.Color(single, 0) != p.ColorOf("Sylvia communis") {
		t.Error("single-species cell should use the species color")
	}
	if p.Color(mixed, 0) != White || p.Color(withUnnamed, 0) != White {
		t.Error("mixed cells should be white")
	}
}

func TestDayColor(t *testing.T) {
	tests := []struct {
		day  int
		want models.RGBA
	}{
		{1, models.RGBA{255, 0, 0, 255}},
		{182, White},
		{366, White},
	}
	for _, tt := range tests {
		if got := DayColor(tt.day); got != tt.want {
			t.Errorf("DayColor(%d) = %v, want %v", tt.day, got, tt.want)
		}
	}
	if DayColor(181) == White {
		t.Error("day 181 should still be colored")
	}

	ramp := DayOfYearRamp{}
	if ramp.Color(models.AggregatedPoint{}, 0) != White {
		t.Error("point without a day should be white")
	}
}

func TestRatioRamp(t *testing.T) {
	r := NewRatioRamp(0.001)
	if r.Expected != ExpectedFloor {
		t.Errorf("Expected = %v, want floor %v", r.Expected, ExpectedFloor)
	}

	r = NewRatioRamp(0.1)
	atExpected := models.AggregatedPoint{Count: 10, SpeciesCount: 1}
	if got := r.Ratio(atExpected); math.Abs(got-1) > 1e-9 {
		t.Errorf("Ratio = %v, want 1", got)
	}
	saturated := models.AggregatedPoint{Count: 10, SpeciesCount: 10}
	if got := r.Color(saturated, 0); got != (models.RGBA{255, 0, 0, 255}) {
		t.Errorf("capped ratio color = %v, want red", got)
	}
	if got := r.Ratio(models.AggregatedPoint{}); got != 0 {
		t.Errorf("Ratio of empty point = %v, want 0", got)
	}
}

func TestCSS(t *testing.T) {
	if got := CSS(models.RGBA{1, 2, 3, 4}); got != "rgb(1, 2, 3)" {
		t.Errorf("CSS() = %q", got)
	}
}
