// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/tomtom215/sightmap/internal/filter"
)

// Renderer executes templates from a single module's template directory.
// Names are file names relative to that directory, e.g. "view.html".
type Renderer struct {
	module    string
	templates *template.Template
}

//go:embed templates/*.html
var partialFS embed.FS

// funcs are available to every module template.
var funcs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"query":   func(p filter.Params, kv ...string) template.URL { return template.URL(p.Encode(pairs(kv))) }, //nolint:gosec // url.Values encoded
	"join":    strings.Join,
	// css marks a color built by the encode package as safe in style attributes.
	"css": func(s string) template.CSS { return template.CSS(s) }, //nolint:gosec // rgb() strings from encode.CSS
}

// partials holds the shared "no_data", "species_single", "species_multi",
// "display_controls", "map" and "histogram" templates.
var partials = template.Must(template.New("partials").Funcs(funcs).ParseFS(partialFS, "templates/*.html"))

// NewRenderer parses every *.html file at the root of fsys on top of the
// shared partials. A nil fsys yields a renderer with only the partials.
func NewRenderer(module string, fsys fs.FS) (*Renderer, error) {
	tmpl, err := partials.Clone()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, module, err)
	}
	r := &Renderer{module: module, templates: tmpl}
	if fsys == nil {
		return r, nil
	}

	matches, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, module, err)
	}
	if len(matches) == 0 {
		return r, nil
	}

	if _, err := tmpl.ParseFS(fsys, matches...); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, module, err)
	}
	return r, nil
}

// Render executes the named template.
func (r *Renderer) Render(name string, data any) (Document, error) {
	if r == nil || r.templates == nil || r.templates.Lookup(name) == nil {
		return "", fmt.Errorf("%w: %s has no template %q", ErrTemplate, r.moduleName(), name)
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s/%s: %v", ErrTemplate, r.module, name, err)
	}
	return Document(buf.String()), nil //nolint:gosec // html/template output
}

func (r *Renderer) moduleName() string {
	if r == nil {
		return "<nil>"
	}
	return r.module
}

func pairs(kv []string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
