// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package encode

import (
	"math"
	"sort"

	"github.com/tomtom215/sightmap/internal/models"
)

// Palette picks the base color of a point. t is the point's position on the
// request's count scale; palettes that do not encode magnitude ignore it.
// The returned alpha is replaced by the encoder.
type Palette interface {
	Color(p models.AggregatedPoint, t float64) models.RGBA
}

// CountRamp runs from blue (t = 0) through green to red (t = 1), so a higher
// count is never cooler than a lower one.
type CountRamp struct{}

func (CountRamp) Color(_ models.AggregatedPoint, t float64) models.RGBA {
	t = math.Max(0, math.Min(1, t))
	return hsvToRGB((1-t)*240.0/360.0, 1, 1)
}

// Fixed paints every point the same color.
type Fixed struct {
	RGB models.RGBA
}

func (f Fixed) Color(models.AggregatedPoint, float64) models.RGBA {
	return f.RGB
}

const goldenRatioConjugate = 0.618033988749895

// SpeciesPalette gives each species a stable color and paints cells holding
// more than one species (or any unnamed record) white.
type SpeciesPalette struct {
	colors   map[string]models.RGBA
	fallback models.RGBA
}

// NewSpeciesPalette assigns colors to the sorted species names by stepping the
// hue by the golden ratio conjugate, with lightness 0.6 and saturation 0.9 so
// every color reads on a dark background. The assignment depends only on the
// set of names, never on request order.
func NewSpeciesPalette(species []string) SpeciesPalette {
	names := append([]string(nil), species...)
	sort.Strings(names)

	colors := make(map[string]models.RGBA, len(names))
	hue := 0.0
	for _, name := range names {
		colors[name] = hlsToRGB(hue, 0.6, 0.9)
		hue = math.Mod(hue+goldenRatioConjugate, 1)
	}
	return SpeciesPalette{colors: colors, fallback: Orange}
}

// ColorOf returns the color assigned to name, or the fallback.
func (sp SpeciesPalette) ColorOf(name string) models.RGBA {
	if c, ok := sp.colors[name]; ok {
		return c
	}
	return sp.fallback
}

func (sp SpeciesPalette) Color(p models.AggregatedPoint, _ float64) models.RGBA {
	if len(p.Species) == 1 && p.UnnamedCount == 0 {
		return sp.ColorOf(p.Species[0])
	}
	return White
}

// LastColoredDay is the last day of year that gets a hue; later days are white.
const LastColoredDay = 181

// DayOfYearRamp colors by the earliest day of year at the point, red on
// January 1st through violet on June 30th.
type DayOfYearRamp struct{}

// DayColor returns the ramp color for one day of year.
func DayColor(day int) models.RGBA {
	if day > LastColoredDay {
		return White
	}
	if day < 1 {
		day = 1
	}
	return hsvToRGB(float64(day-1)/180*0.83, 1, 1)
}

func (DayOfYearRamp) Color(p models.AggregatedPoint, _ float64) models.RGBA {
	if p.MinDay == nil {
		return White
	}
	return DayColor(*p.MinDay)
}

// Ratio defaults.
const (
	RatioCap      = 5.0
	ExpectedFloor = 0.005
)

// RatioRamp colors by how over-represented a species is at a point: the
// observed share SpeciesCount/Count divided by the expected share. The
// ratio is capped at Cap and runs blue (never seen) to red (Cap times expected).
type RatioRamp struct {
	Expected float64
	Cap      float64
}

// NewRatioRamp floors expected at ExpectedFloor so rare species do not
// produce unbounded ratios.
func NewRatioRamp(expected float64) RatioRamp {
	return RatioRamp{Expected: math.Max(expected, ExpectedFloor), Cap: RatioCap}
}

// Ratio returns observed/expected for p, 0 when p has no records.
func (r RatioRamp) Ratio(p models.AggregatedPoint) float64 {
	if p.Count == 0 {
		return 0
	}
	expected := math.Max(r.Expected, ExpectedFloor)
	return float64(p.SpeciesCount) / float64(p.Count) / expected
}

func (r RatioRamp) Color(p models.AggregatedPoint, _ float64) models.RGBA {
	capValue := r.Cap
	if capValue <= 0 {
		capValue = RatioCap
	}
	t := math.Min(r.Ratio(p)/capValue, 1)
	return hsvToRGB((1-t)*0.667, 1, 1)
}
