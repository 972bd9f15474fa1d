// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/modules/overview"
	"github.com/tomtom215/sightmap/internal/validation"
)

// Bounding box query parameters. All four or none must be given.
var boundsParams = [4]string{"south", "west", "north", "east"}

// boundsRequest validates a bounding box. East may be less than West for
// boxes crossing the antimeridian.
type boundsRequest struct {
	South float64 `validate:"latitude"`
	West  float64 `validate:"longitude"`
	North float64 `validate:"latitude,gtefield=South"`
	East  float64 `validate:"longitude"`
}

var errPartialBounds = errors.New("south, west, north and east must be given together")

// parseBounds returns nil when no bound is given.
func parseBounds(values url.Values) (*boundsRequest, error) {
	var raw [4]string
	given := 0
	for i, name := range boundsParams {
		raw[i] = strings.TrimSpace(values.Get(name))
		if raw[i] != "" {
			given++
		}
	}
	switch given {
	case 0:
		return nil, nil
	case len(boundsParams):
	default:
		return nil, errPartialBounds
	}

	var parsed [4]float64
	for i, s := range raw {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", boundsParams[i])
		}
		parsed[i] = f
	}
	return &boundsRequest{South: parsed[0], West: parsed[1], North: parsed[2], East: parsed[3]}, nil
}

// Points serves the overview map's styled points as GeoJSON.
//
// Query parameters are the overview page's (species, point_size,
// scale_with_map, color_mode, opacity) plus an optional bounding box and
// s2_level to override the configured binning.
//
// @Summary Get styled occurrence points
// @Description Aggregates the filtered records into locations or S2 cells and styles them the way the overview map does.
// @Tags Map
// @Produce application/geo+json
// @Param species query []string false "Species to include; unknown names select all" collectionFormat(multi)
// @Param point_size query int false "Point radius in pixels"
// @Param scale_with_map query bool false "Give points a fixed ground radius instead"
// @Param color_mode query string false "Point coloring" Enums(single, species, count)
// @Param opacity query number false "Opacity of the least recorded location" minimum(0) maximum(1)
// @Param s2_level query int false "S2 cell level for binning; 0 keeps exact locations" minimum(0) maximum(30)
// @Param south query number false "Bounding box south latitude"
// @Param west query number false "Bounding box west longitude"
// @Param north query number false "Bounding box north latitude"
// @Param east query number false "Bounding box east longitude"
// @Success 200 {object} object "GeoJSON FeatureCollection"
// @Failure 400 {object} models.APIResponse "Invalid bounding box"
// @Failure 503 {object} models.APIResponse "Occurrence data is unavailable"
// @Router /points [get]
func (router *Router) Points(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	values := r.URL.Query()

	bounds, err := parseBounds(values)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if bounds != nil {
		if verr := validation.ValidateStruct(bounds); verr != nil {
			respondValidationError(w, verr)
			return
		}
	}

	p := router.pipeline
	species, err := p.Aggregator.Species(r.Context())
	if err != nil {
		router.respondStoreError(w, r, err)
		return
	}

	f := filter.Resolve(values, species.Names, p.Defaults)
	params := filter.NewParams(values)
	q := aggregate.QueryFor(f, params.Int("s2_level", p.S2Level, 0, aggregate.MaxS2Level))
	if bounds != nil {
		q.Bounds = &models.Bounds{South: bounds.South, West: bounds.West, North: bounds.North, East: bounds.East}
	}

	points, err := p.Aggregator.Points(r.Context(), q)
	if err != nil {
		router.respondStoreError(w, r, err)
		return
	}

	opts := overview.Options(
		species.Names,
		params.Choice("color_mode", overview.ColorSingle, overview.ColorModes...),
		p.Encoder.From(params.Float("opacity", p.Encoder.Range().Min, 0, 1)),
		p.Tooltips,
	)
	styled := p.Encoder.Encode(points, f, opts)

	data, err := mapview.GeoJSON(styled)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to encode points", err)
		return
	}
	w.Header().Set("X-Query-Time-Ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	writeBody(w, http.StatusOK, "application/geo+json", data)
}

// Species returns the species index: names by record count, counts and totals.
//
// @Summary Get the species index
// @Description Returns species names ordered by record count, with per-species counts and totals.
// @Tags Map
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SpeciesIndex} "Species index"
// @Failure 503 {object} models.APIResponse "Occurrence data is unavailable"
// @Router /species [get]
func (router *Router) Species(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	species, err := router.pipeline.Aggregator.Species(r.Context())
	if err != nil {
		router.respondStoreError(w, r, err)
		return
	}
	respondOK(w, species, start)
}

// Modules returns the registered module descriptors in navigation order.
//
// @Summary List map modules
// @Description Returns every registered module with its title, description and page route.
// @Tags Map
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.ModuleDescriptor} "Registered modules"
// @Router /modules [get]
func (router *Router) Modules(w http.ResponseWriter, r *http.Request) {
	respondOK(w, router.registry.Descriptors(), time.Now())
}

func (router *Router) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, aggregate.ErrDataUnavailable) {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeDataUnavailable, "Occurrence data is unavailable", err)
		return
	}
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal error", err)
}
