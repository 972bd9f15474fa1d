// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package aggregate

import (
	"sort"

	"github.com/golang/geo/s2"

	"github.com/tomtom215/sightmap/internal/models"
)

// MaxS2Level is the finest S2 level accepted for binning.
const MaxS2Level = 30

// cellFor returns the S2 cell of level containing the coordinate.
func cellFor(lat, lon float64, level int) s2.CellID {
	if level < 1 {
		level = 1
	}
	if level > MaxS2Level {
		level = MaxS2Level
	}
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(level)
}

// cellKey is the spatial key for a cell: its centre plus its id.
func cellKey(cell s2.CellID) models.SpatialKey {
	center := cell.LatLng()
	return models.SpatialKey{
		Latitude:  center.Lat.Degrees(),
		Longitude: center.Lng.Degrees(),
		Cell:      uint64(cell),
	}
}

// binS2 merges raw location groups into S2 cells. Counts are summed, so the
// total record count is unchanged.
func binS2(points []models.AggregatedPoint, level int) []models.AggregatedPoint {
	merged := make(map[s2.CellID]*models.AggregatedPoint)
	speciesSets := make(map[s2.CellID]map[string]struct{})
	var order []s2.CellID

	for i := range points {
		p := &points[i]
		cell := cellFor(p.Key.Latitude, p.Key.Longitude, level)

		m, ok := merged[cell]
		if !ok {
			m = &models.AggregatedPoint{Key: cellKey(cell)}
			merged[cell] = m
			speciesSets[cell] = make(map[string]struct{})
			order = append(order, cell)
		}
		mergeInto(m, p)
		for _, s := range p.Species {
			speciesSets[cell][s] = struct{}{}
		}
	}

	out := make([]models.AggregatedPoint, 0, len(order))
	for _, cell := range order {
		m := merged[cell]
		m.Species = sortedKeys(speciesSets[cell])
		out = append(out, *m)
	}
	sortByKey(out)
	return out
}

// binS2Daily merges per-day groups that fall in the same cell on the same day.
func binS2Daily(points []models.AggregatedPoint, level int) []models.AggregatedPoint {
	type dayCell struct {
		cell s2.CellID
		day  int
	}
	merged := make(map[dayCell]*models.AggregatedPoint)
	var order []dayCell

	for i := range points {
		p := &points[i]
		k := dayCell{cell: cellFor(p.Key.Latitude, p.Key.Longitude, level), day: p.Day}
		m, ok := merged[k]
		if !ok {
			m = &models.AggregatedPoint{Key: cellKey(k.cell), Day: p.Day}
			merged[k] = m
			order = append(order, k)
		}
		m.Count += p.Count
	}

	out := make([]models.AggregatedPoint, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return keyLess(out[i].Key, out[j].Key)
	})
	return out
}

func mergeInto(dst, src *models.AggregatedPoint) {
	dst.Count += src.Count
	dst.UnnamedCount += src.UnnamedCount
	dst.SpeciesCount += src.SpeciesCount

	if src.Earliest != nil && (dst.Earliest == nil || src.Earliest.Before(*dst.Earliest)) {
		t := *src.Earliest
		dst.Earliest = &t
	}
	if src.Latest != nil && (dst.Latest == nil || src.Latest.After(*dst.Latest)) {
		t := *src.Latest
		dst.Latest = &t
	}
	if src.MinDay != nil && (dst.MinDay == nil || *src.MinDay < *dst.MinDay) {
		d := *src.MinDay
		dst.MinDay = &d
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func keyLess(a, b models.SpatialKey) bool {
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	if a.Longitude != b.Longitude {
		return a.Longitude < b.Longitude
	}
	return a.Cell < b.Cell
}

func sortByKey(points []models.AggregatedPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return keyLess(points[i].Key, points[j].Key)
	})
}
