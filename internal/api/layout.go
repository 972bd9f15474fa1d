// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var layoutTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type navItem struct {
	Title  string
	Route  string
	Active bool
}

type errorPanel struct {
	Heading   string
	Message   string
	RequestID string
}

type layoutData struct {
	Title   string
	Nav     []navItem
	Content template.HTML
	Error   *errorPanel
}

// navFor lists every module, marking active as the current page.
func navFor(modules []models.ModuleDescriptor, active string) []navItem {
	nav := make([]navItem, 0, len(modules))
	for _, m := range modules {
		nav = append(nav, navItem{Title: m.Title, Route: m.Route, Active: m.Route == active})
	}
	return nav
}

// renderPage executes the layout into a buffer first so a template failure
// never leaves a half-written 200 behind.
func renderPage(w http.ResponseWriter, r *http.Request, status int, data layoutData) {
	var buf bytes.Buffer
	if err := layoutTemplates.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render layout")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write page")
	}
}

// renderFragment executes a named layout fragment to HTML.
func renderFragment(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := layoutTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template
}
