// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package mapview

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/tomtom215/sightmap/internal/models"
)

// GeoJSON encodes styled points as a FeatureCollection of Point features
// carrying the measures and the resolved style as properties.
func GeoJSON(points []models.StyledPoint) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewPointFeature([]float64{p.Key.Longitude, p.Key.Latitude})
		f.SetProperty("count", p.Count)
		f.SetProperty("species", p.Species)
		f.SetProperty("unnamed_count", p.UnnamedCount)
		if p.Key.Cell != 0 {
			f.SetProperty("cell", fmt.Sprintf("%016x", p.Key.Cell))
		}
		if p.Earliest != nil {
			f.SetProperty("earliest", p.Earliest.Format("2006-01-02"))
		}
		if p.Latest != nil {
			f.SetProperty("latest", p.Latest.Format("2006-01-02"))
		}
		f.SetProperty("color", []int{int(p.Color[0]), int(p.Color[1]), int(p.Color[2]), int(p.Color[3])})
		f.SetProperty("opacity", p.Opacity)
		f.SetProperty("radius", p.Radius)
		f.SetProperty("radius_units", string(p.RadiusUnits))
		f.SetProperty("tooltip", p.Tooltip)
		fc.AddFeature(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature collection: %w", err)
	}
	return data, nil
}
