// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package encode

import (
	"math"

	"github.com/tomtom215/sightmap/internal/models"
)

// Scale is a logarithmic scale over one request's count range:
//
//	t(c) = ln(1 + c - min) / ln(1 + max - min)
//
// t is 0 for every count when the range is empty or flat, so a request where
// all points share a count renders at the minimum style.
type Scale struct {
	Min int64
	Max int64
}

// NewScale spans the record counts of points.
func NewScale(points []models.AggregatedPoint) Scale {
	if len(points) == 0 {
		return Scale{}
	}
	s := Scale{Min: points[0].Count, Max: points[0].Count}
	for _, p := range points[1:] {
		if p.Count < s.Min {
			s.Min = p.Count
		}
		if p.Count > s.Max {
			s.Max = p.Count
		}
	}
	return s
}

// T maps c into [0, 1]. Counts outside the range are clamped.
func (s Scale) T(c int64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	if c <= s.Min {
		return 0
	}
	if c >= s.Max {
		return 1
	}
	return math.Log1p(float64(c-s.Min)) / math.Log1p(float64(s.Max-s.Min))
}
