// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package api

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/middleware"
	"github.com/tomtom215/sightmap/internal/module"
)

// Index lists every registered module.
func (router *Router) Index(w http.ResponseWriter, r *http.Request) {
	modules := router.registry.Descriptors()
	content, err := renderFragment("index", modules)
	if err != nil {
		router.errorPage(w, r, "", err)
		return
	}
	renderPage(w, r, http.StatusOK, layoutData{Nav: navFor(modules, ""), Content: content})
}

// ModulePage runs entry through the pipeline and wraps its document in the layout.
func (router *Router) ModulePage(entry *module.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := router.pipeline.Render(r.Context(), entry, r.URL.Query(), router.registry)
		if err != nil {
			router.errorPage(w, r, entry.Descriptor.Route, err)
			return
		}

		renderPage(w, r, http.StatusOK, layoutData{
			Title:   entry.Descriptor.Title,
			Nav:     navFor(router.registry.Descriptors(), entry.Descriptor.Route),
			Content: template.HTML(doc), //nolint:gosec // module documents come from html/template
		})
	}
}

// errorPage shows a store outage as 503 and anything else as 500. The
// details of err are logged, never shown.
func (router *Router) errorPage(w http.ResponseWriter, r *http.Request, active string, err error) {
	status := http.StatusInternalServerError
	panel := &errorPanel{
		Heading: "Something went wrong",
		Message: "The page could not be rendered.",
	}
	if errors.Is(err, aggregate.ErrDataUnavailable) {
		status = http.StatusServiceUnavailable
		panel.Heading = "Occurrence data unavailable"
		panel.Message = "The observation store is not answering right now. Try again in a moment."
	}
	panel.RequestID = middleware.GetRequestID(r.Context())

	logging.Ctx(r.Context()).Error().
		Err(err).
		Str("path", sanitizeLogValue(r.URL.Path)).
		Int("status", status).
		Msg("Page render failed")

	renderPage(w, r, status, layoutData{
		Title: panel.Heading,
		Nav:   navFor(router.registry.Descriptors(), active),
		Error: panel,
	})
}

func (router *Router) notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, APIPrefix+"/") {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No such endpoint", nil)
		return
	}
	renderPage(w, r, http.StatusNotFound, layoutData{
		Title: "Not found",
		Nav:   navFor(router.registry.Descriptors(), ""),
		Error: &errorPanel{
			Heading:   "Not found",
			Message:   "There is no map at this address.",
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}
