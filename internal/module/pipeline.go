// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/encode"
	"github.com/tomtom215/sightmap/internal/filter"
	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/mapview"
	"github.com/tomtom215/sightmap/internal/metrics"
	"github.com/tomtom215/sightmap/internal/tooltip"
)

// Pipeline holds the shared collaborators and builds a Context per request.
type Pipeline struct {
	Aggregator *aggregate.Aggregator
	Encoder    *encode.Encoder
	Tooltips   *tooltip.Builder
	Maps       *mapview.Assembler
	Defaults   filter.Defaults
	S2Level    int
}

// NewContext loads the species index and resolves the request filter
// against it. A store failure is returned as is so callers can match
// aggregate.ErrDataUnavailable.
func (p *Pipeline) NewContext(ctx context.Context, entry *Entry, values url.Values, modules *Registry) (*Context, error) {
	species, err := p.Aggregator.Species(ctx)
	if err != nil {
		return nil, err
	}

	mc := &Context{
		Descriptor: entry.Descriptor,
		Filter:     filter.Resolve(values, species.Names, p.Defaults),
		Params:     filter.NewParams(values),
		Species:    species,
		S2Level:    p.S2Level,
		Aggregator: p.Aggregator,
		Encoder:    p.Encoder,
		Tooltips:   p.Tooltips,
		Maps:       p.Maps,
		Templates:  entry.Templates,
	}
	if modules != nil {
		mc.Modules = modules.Descriptors()
	}
	return mc, nil
}

// Render builds the context for entry and runs the module.
func (p *Pipeline) Render(ctx context.Context, entry *Entry, values url.Values, modules *Registry) (Document, error) {
	start := time.Now()
	id := entry.Descriptor.ID

	mc, err := p.NewContext(ctx, entry, values, modules)
	if err != nil {
		metrics.RecordModuleRender(id, time.Since(start), 0, reason(err))
		return "", err
	}

	doc, err := entry.Module.Render(ctx, mc)
	if err != nil {
		metrics.RecordModuleRender(id, time.Since(start), 0, reason(err))
		return "", fmt.Errorf("failed to render module %s: %w", id, err)
	}

	metrics.RecordModuleRender(id, time.Since(start), mc.plotted, "")
	logging.Ctx(ctx).Debug().
		Str("module", id).
		Int("species_selected", len(mc.Filter.Species)).
		Int("points", mc.plotted).
		Dur("duration", time.Since(start)).
		Msg("Rendered module")
	return doc, nil
}

func reason(err error) string {
	if errors.Is(err, aggregate.ErrDataUnavailable) {
		return "data_unavailable"
	}
	return "render_error"
}
