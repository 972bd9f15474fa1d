// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package aggregate

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable means the store could not answer. It is never returned
// for a query that legitimately matched nothing.
var ErrDataUnavailable = errors.New("occurrence data unavailable")

// UnavailableError carries the failed operation and the store error.
// errors.Is(err, ErrDataUnavailable) holds for every UnavailableError, and
// the store error stays reachable through Unwrap.
type UnavailableError struct {
	Operation string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataUnavailable, e.Operation, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is matches ErrDataUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func unavailable(operation string, err error) error {
	return &UnavailableError{Operation: operation, Err: err}
}
