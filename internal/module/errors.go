// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package module

import "errors"

var (
	// ErrRouteCollision means two modules resolve to the same route. It aborts startup.
	ErrRouteCollision = errors.New("module route collision")

	// ErrMissingContract means a candidate does not implement Module.
	ErrMissingContract = errors.New("module does not implement the module contract")

	// ErrInvalidDescriptor means a candidate's ID, title or description failed validation.
	ErrInvalidDescriptor = errors.New("invalid module descriptor")

	// ErrTemplate means a candidate's templates could not be parsed or executed.
	ErrTemplate = errors.New("module template error")
)
