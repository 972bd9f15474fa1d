// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Params gives modules typed access to their own query parameters.
//
//	opacity := mc.Params.Float("opacity", 0.5, 0, 1)
//	mode := mc.Params.Choice("color_mode", "single", "single", "species")
type Params struct {
	values url.Values
}

// NewParams wraps raw query values. A nil map is treated as empty.
func NewParams(values url.Values) Params {
	if values == nil {
		values = url.Values{}
	}
	return Params{values: values}
}

// Int returns the parameter clamped to [lo, hi], or def when absent or not an integer.
func (p Params) Int(name string, def, lo, hi int) int {
	return clampInt(parseInt(p.values.Get(name), def), lo, hi)
}

// Float returns the parameter clamped to [lo, hi], or def when absent, not a
// number, or NaN.
func (p Params) Float(name string, def, lo, hi float64) float64 {
	raw := strings.TrimSpace(p.values.Get(name))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return def
	}
	return math.Max(lo, math.Min(hi, f))
}

// Choice returns the parameter when it is one of allowed, otherwise def.
func (p Params) Choice(name, def string, allowed ...string) string {
	v := p.values.Get(name)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

// Bool reports whether the parameter is a truthy flag (see ParseBool).
func (p Params) Bool(name string) bool {
	return ParseBool(p.values.Get(name))
}

// String returns the trimmed raw value, "" when absent.
func (p Params) String(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

// Encode re-encodes the parameters with overrides applied, for building links
// that keep the current selection.
func (p Params) Encode(overrides map[string]string) string {
	out := make(url.Values, len(p.values))
	for k, v := range p.values {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range overrides {
		out.Set(k, v)
	}
	return out.Encode()
}
