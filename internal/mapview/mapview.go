// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package mapview assembles styled points into a standalone deck.gl HTML
// document, meant to be embedded in a page through an iframe srcdoc, and
// exports the same points as GeoJSON.
package mapview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Document is a complete HTML document. Pages embed it as a string so the
// template engine escapes it into the srcdoc attribute.
type Document string

// View is the initial camera and the scripts every document loads.
type View struct {
	Latitude      float64
	Longitude     float64
	Zoom          float64
	DeckScriptURL string
	TileURL       string
}

// ViewFromConfig reads the view from the map configuration.
func ViewFromConfig(m config.MapConfig) View {
	return View{
		Latitude:      m.CenterLatitude,
		Longitude:     m.CenterLongitude,
		Zoom:          m.Zoom,
		DeckScriptURL: m.DeckScriptURL,
		TileURL:       m.TileURL,
	}
}

// ScatterOptions control the scatter layer.
type ScatterOptions struct {
	Title        string
	PointSize    int
	ScaleWithMap bool
}

// ScatterOptionsFor copies the radius controls from the request filter.
func ScatterOptionsFor(f models.Filter) ScatterOptions {
	return ScatterOptions{PointSize: f.PointSize, ScaleWithMap: f.ScaleWithMap}
}

// AnimationOptions control the day-by-day spread animation.
type AnimationOptions struct {
	Title        string
	PointSize    int
	ScaleWithMap bool
	RadiusMeters float64
	FadeDays     int
	// Speed is in days of year per second.
	Speed int
	Color models.RGBA
}

// Assembler renders map documents.
type Assembler struct {
	view      View
	templates *template.Template
}

// New parses the embedded document templates.
func New(view View) (*Assembler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse map templates: %w", err)
	}
	return &Assembler{view: view, templates: tmpl}, nil
}

// scatterPoint is the per-point payload the scatter template reads.
type scatterPoint struct {
	Position [2]float64 `json:"position"`
	Color    [4]int     `json:"color"`
	Radius   float64    `json:"radius"`
	Tooltip  string     `json:"tooltip"`
	Count    int64      `json:"count"`
}

// Scatter renders one ScatterplotLayer. Pixel radius pins every point to
// PointSize pixels; metre radius uses each point's Radius with a 1 pixel floor.
func (a *Assembler) Scatter(points []models.StyledPoint, opts ScatterOptions) (Document, error) {
	payload := make([]scatterPoint, len(points))
	for i, p := range points {
		payload[i] = scatterPoint{
			Position: [2]float64{p.Key.Longitude, p.Key.Latitude},
			Color:    [4]int{int(p.Color[0]), int(p.Color[1]), int(p.Color[2]), int(p.Color[3])},
			Radius:   p.Radius,
			Tooltip:  p.Tooltip,
			Count:    p.Count,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode scatter points: %w", err)
	}

	return a.execute("scatter.html.tmpl", map[string]interface{}{
		"Title":        titleOr(opts.Title, "Map"),
		"View":         a.view,
		"Data":         template.JS(data), //nolint:gosec // go-json output with HTML characters escaped
		"PointSize":    opts.PointSize,
		"ScaleWithMap": opts.ScaleWithMap,
	})
}

// Animation renders the spread animation. Each point contributes
// [latitude, longitude, day]; points must be ordered by day.
func (a *Assembler) Animation(points []models.AggregatedPoint, opts AnimationOptions) (Document, error) {
	triples := make([][3]float64, len(points))
	for i, p := range points {
		triples[i] = [3]float64{p.Key.Latitude, p.Key.Longitude, float64(p.Day)}
	}

	data, err := json.Marshal(triples)
	if err != nil {
		return "", fmt.Errorf("failed to encode animation points: %w", err)
	}

	return a.execute("animation.html.tmpl", map[string]interface{}{
		"Title":        titleOr(opts.Title, "Spread"),
		"View":         a.view,
		"Data":         template.JS(data), //nolint:gosec // numeric triples only
		"PointSize":    opts.PointSize,
		"ScaleWithMap": opts.ScaleWithMap,
		"RadiusMeters": opts.RadiusMeters,
		"FadeDays":     opts.FadeDays,
		"Speed":        opts.Speed,
		"Color":        []int{int(opts.Color[0]), int(opts.Color[1]), int(opts.Color[2])},
	})
}

func (a *Assembler) execute(name string, data interface{}) (Document, error) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return Document(buf.String()), nil
}

func titleOr(title, def string) string {
	if title == "" {
		return def
	}
	return title
}
