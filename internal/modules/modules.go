// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package modules lists the built-in map modules in navigation order.
package modules

import (
	"github.com/tomtom215/sightmap/internal/module"
	"github.com/tomtom215/sightmap/internal/modules/overview"
	"github.com/tomtom215/sightmap/internal/modules/proportionmap"
	"github.com/tomtom215/sightmap/internal/modules/speciesmap"
	"github.com/tomtom215/sightmap/internal/modules/spreadmap"
	"github.com/tomtom215/sightmap/internal/modules/temporalmap"
)

// All returns a candidate for every built-in module. Adding a module means
// adding its package here.
func All() []module.Candidate {
	return []module.Candidate{
		overview.Candidate(),
		speciesmap.Candidate(),
		proportionmap.Candidate(),
		temporalmap.Candidate(),
		spreadmap.Candidate(),
	}
}
