// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package testinfra provides shared fixtures for tests that need a real
// store: an in-memory DuckDB database with the production schema, record
// builders and a store that always fails.
//
//	func TestPoints(t *testing.T) {
//	    db := testinfra.NewStore(t)
//	    testinfra.Seed(t, db,
//	        testinfra.Sighting("Sylvia communis", 61.677, 29.645),
//	    )
//	    ...
//	}
package testinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/database"
	"github.com/tomtom215/sightmap/internal/models"
)

// dbSemaphore serializes DuckDB usage across parallel tests; concurrent CGO
// connections from parallel tests have been seen to hang under CI load.
var dbSemaphore = make(chan struct{}, 1)

// DefaultTime is the timestamp given to records built without one.
var DefaultTime = time.Date(2025, 5, 14, 6, 30, 0, 0, time.UTC)

// NewStore opens an empty in-memory database, held exclusively until the
// test ends.
func NewStore(t *testing.T) *database.DB {
	t.Helper()

	dbSemaphore <- struct{}{}
	t.Cleanup(func() { <-dbSemaphore })

	cfg := &config.DatabaseConfig{
		Path:         ":memory:",
		MaxMemory:    "1GB",
		QueryTimeout: 30 * time.Second,
	}
	breaker := config.BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  100,
		FailureRatio: 1,
	}

	db, err := database.New(cfg, breaker)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Seed inserts records, failing the test on error.
func Seed(t *testing.T, db *database.DB, records ...*models.OccurrenceRecord) {
	t.Helper()
	if _, _, err := db.InsertRecords(context.Background(), records); err != nil {
		t.Fatalf("failed to seed records: %v", err)
	}
}

// Sighting builds a record at DefaultTime. An empty species leaves the name NULL.
func Sighting(species string, lat, lon float64) *models.OccurrenceRecord {
	return SightingAt(species, lat, lon, DefaultTime)
}

// SightingAt builds a record at ts.
func SightingAt(species string, lat, lon float64, ts time.Time) *models.OccurrenceRecord {
	rec := &models.OccurrenceRecord{
		Latitude:  &lat,
		Longitude: &lon,
		Time:      &ts,
		DayOfYear: Ptr(ts.YearDay()),
		Year:      Ptr(ts.Year()),
	}
	if species != "" {
		rec.Species = &species
	}
	return rec
}

// Unplottable builds a record without coordinates.
func Unplottable(species string) *models.OccurrenceRecord {
	rec := Sighting(species, 0, 0)
	rec.Latitude = nil
	rec.Longitude = nil
	return rec
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// ErrStoreDown is returned by FailingStore.
var ErrStoreDown = errors.New("store is down")

// FailingStore rejects every query, standing in for an unreachable store.
type FailingStore struct{}

// Query always returns ErrStoreDown.
func (FailingStore) Query(context.Context, string, string, []interface{}, database.RowScanner) error {
	return ErrStoreDown
}
