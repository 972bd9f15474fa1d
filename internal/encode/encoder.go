// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package encode maps aggregated measures to color, opacity and radius.
//
// Styling is a pure function of a point's measures, the request's count range
// and the filter: equal measures always get equal styles, and output order
// matches input order.
package encode

import (
	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
)

// OpacityRange bounds the opacity assigned along the count scale. The zero
// value means "use the encoder defaults"; a zero Max alone takes the
// configured maximum.
type OpacityRange struct {
	Min float64
	Max float64
}

// Constant returns a range that gives every point the same opacity.
func Constant(opacity float64) OpacityRange {
	return OpacityRange{Min: opacity, Max: opacity}
}

// Options tune one Encode call.
type Options struct {
	// Palette defaults to CountRamp.
	Palette Palette
	Opacity OpacityRange
	// Label builds the tooltip; nil leaves it empty.
	Label func(p models.AggregatedPoint) string
}

// Encoder holds the configured opacity range and metre radius.
type Encoder struct {
	opacity      OpacityRange
	scaledRadius float64
}

// New builds an encoder from the map configuration.
func New(cfg config.MapConfig) *Encoder {
	return &Encoder{
		opacity:      OpacityRange{Min: cfg.MinOpacity, Max: cfg.MaxOpacity},
		scaledRadius: cfg.ScaledRadiusMeters,
	}
}

// Encode styles points for filter. The scale spans the points passed in, so
// callers encode one request's full result at once.
func (e *Encoder) Encode(points []models.AggregatedPoint, filter models.Filter, opts Options) []models.StyledPoint {
	palette := opts.Palette
	if palette == nil {
		palette = CountRamp{}
	}
	opacity := e.resolve(opts.Opacity)

	scale := NewScale(points)
	radius, units := e.Radius(filter)

	out := make([]models.StyledPoint, len(points))
	for i, p := range points {
		t := scale.T(p.Count)
		alpha := clamp01(opacity.Min + (opacity.Max-opacity.Min)*t)

		sp := models.StyledPoint{
			AggregatedPoint: p,
			Color:           WithAlpha(palette.Color(p, t), alpha),
			Opacity:         alpha,
			Radius:          radius,
			RadiusUnits:     units,
		}
		if opts.Label != nil {
			sp.Tooltip = opts.Label(p)
		}
		out[i] = sp
	}
	return out
}

// Range is the configured opacity range. Modules use its Min as the
// default of their opacity control.
func (e *Encoder) Range() OpacityRange {
	return e.opacity
}

// From returns the range running from min, the opacity of the least recorded
// point, up to the configured maximum.
//
//	opacity := mc.Params.Float("opacity", mc.Encoder.Range().Min, 0, 1)
//	opts := encode.Options{Opacity: mc.Encoder.From(opacity)}
func (e *Encoder) From(min float64) OpacityRange {
	return OpacityRange{Min: min, Max: e.opacity.Max}
}

// resolve fills the unset parts of r from the configuration. Min never
// exceeds Max.
func (e *Encoder) resolve(r OpacityRange) OpacityRange {
	if r == (OpacityRange{}) {
		return e.opacity
	}
	if r.Max == 0 {
		r.Max = e.opacity.Max
	}
	if r.Min > r.Max {
		r.Min = r.Max
	}
	return r
}

// Radius is the point radius for filter: PointSize pixels, or a fixed
// ground distance in metres when the points scale with the map.
func (e *Encoder) Radius(filter models.Filter) (float64, models.RadiusUnits) {
	if filter.ScaleWithMap {
		return e.scaledRadius, models.RadiusMeters
	}
	return float64(filter.PointSize), models.RadiusPixels
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
