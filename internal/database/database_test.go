// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests; concurrent CGO
// connections from parallel tests have been seen to hang under CI load.
var testDBSemaphore = make(chan struct{}, 1)

func testBreakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// setupTestDB creates an in-memory database, held exclusively until the test ends.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := &config.DatabaseConfig{
		Path:         ":memory:",
		MaxMemory:    "1GB",
		QueryTimeout: 30 * time.Second,
	}

	db, err := New(cfg, testBreakerConfig())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func sighting(id string, species *string, lat, lon *float64) *models.OccurrenceRecord {
	ts := time.Date(2025, 5, 14, 6, 30, 0, 0, time.UTC)
	return &models.OccurrenceRecord{
		ID:        id,
		Species:   species,
		Latitude:  lat,
		Longitude: lon,
		Time:      &ts,
		DayOfYear: ptr(ts.YearDay()),
		Year:      ptr(ts.Year()),
	}
}

func TestNew_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.Ping(ctx))

	n, err := db.CountRecords(ctx)
	checkNoError(t, err)
	if n != 0 {
		t.Errorf("expected empty table, got %d rows", n)
	}
	if db.BreakerState() != "closed" {
		t.Errorf("expected closed breaker, got %s", db.BreakerState())
	}
}

func TestInsertRecords(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	records := []*models.OccurrenceRecord{
		sighting("a", ptr("Sylvia communis"), ptr(61.677), ptr(29.645)),
		sighting("b", ptr("Sylvia communis"), ptr(61.677), ptr(29.645)),
		sighting("c", nil, nil, nil),
	}

	inserted, duplicates, err := db.InsertRecords(ctx, records)
	checkNoError(t, err)
	checkIntEqual(t, "inserted", inserted, 3)
	checkIntEqual(t, "duplicates", duplicates, 0)

	// Re-inserting the same IDs is a no-op.
	inserted, duplicates, err = db.InsertRecords(ctx, records[:2])
	checkNoError(t, err)
	checkIntEqual(t, "inserted on retry", inserted, 0)
	checkIntEqual(t, "duplicates on retry", duplicates, 2)

	n, err := db.CountRecords(ctx)
	checkNoError(t, err)
	if n != 3 {
		t.Errorf("expected 3 rows, got %d", n)
	}
}

func TestInsertRecords_AssignsID(t *testing.T) {
	db := setupTestDB(t)

	rec := sighting("", ptr("Turdus merula"), ptr(60.0), ptr(25.0))
	_, _, err := db.InsertRecords(context.Background(), []*models.OccurrenceRecord{rec})
	checkNoError(t, err)
	if rec.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestQuery_NullColumns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, _, err := db.InsertRecords(ctx, []*models.OccurrenceRecord{sighting("x", nil, nil, nil)})
	checkNoError(t, err)

	var species sql.NullString
	var lat sql.NullFloat64
	err = db.Query(ctx, "null_check", "SELECT species_name, latitude FROM species_sightings WHERE id = ?",
		[]interface{}{"x"}, func(rows *sql.Rows) error {
			return rows.Scan(&species, &lat)
		})
	checkNoError(t, err)
	if species.Valid || lat.Valid {
		t.Errorf("expected NULL species and latitude, got %v %v", species, lat)
	}
}

func TestQuery_BreakerOpensAfterFailures(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	noop := func(*sql.Rows) error { return nil }

	for i := 0; i < 3; i++ {
		err := db.Query(ctx, "broken", "SELECT * FROM no_such_table", nil, noop)
		checkError(t, err)
		if errors.Is(err, ErrStoreOpen) {
			t.Fatalf("attempt %d rejected before breaker should have opened", i)
		}
	}

	err := db.Query(ctx, "count", "SELECT 1", nil, noop)
	if !errors.Is(err, ErrStoreOpen) {
		t.Fatalf("expected ErrStoreOpen once the breaker tripped, got %v", err)
	}
	if db.BreakerState() != "open" {
		t.Errorf("expected open breaker, got %s", db.BreakerState())
	}
}

func TestQuery_CanceledContextDoesNotTrip(t *testing.T) {
	db := setupTestDB(t)
	noop := func(*sql.Rows) error { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_ = db.Query(ctx, "canceled", "SELECT 1", nil, noop)
	}

	checkNoError(t, db.Query(context.Background(), "after_cancel", "SELECT 1", nil, noop))
}

func TestRecreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, _, err := db.InsertRecords(ctx, []*models.OccurrenceRecord{sighting("r", ptr("Parus major"), ptr(60.2), ptr(24.9))})
	checkNoError(t, err)
	checkNoError(t, db.Recreate(ctx))

	n, err := db.CountRecords(ctx)
	checkNoError(t, err)
	if n != 0 {
		t.Errorf("expected empty table after Recreate, got %d", n)
	}
}

func TestAppendRecords(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, _, err := db.InsertRecords(ctx, []*models.OccurrenceRecord{sighting("existing", ptr("Parus major"), ptr(60.2), ptr(24.9))})
	checkNoError(t, err)

	records := []*models.OccurrenceRecord{
		sighting("a", ptr("Sylvia communis"), ptr(61.677), ptr(29.645)),
		sighting("b", ptr("Turdus merula"), ptr(60.17), ptr(24.94)),
		sighting("b", ptr("Turdus merula"), ptr(60.17), ptr(24.94)),
		sighting("existing", ptr("Parus major"), ptr(60.2), ptr(24.9)),
		sighting("", nil, nil, nil),
	}

	inserted, duplicates, err := db.AppendRecords(ctx, records)
	checkNoError(t, err)
	checkIntEqual(t, "inserted", inserted, 3)
	checkIntEqual(t, "duplicates", duplicates, 2)
	if records[4].ID == "" {
		t.Error("expected generated ID")
	}

	n, err := db.CountRecords(ctx)
	checkNoError(t, err)
	if n != 4 {
		t.Errorf("expected 4 rows, got %d", n)
	}

	var day, year int
	err = db.Query(ctx, "appended_day", "SELECT day_of_year, year FROM species_sightings WHERE id = ?",
		[]interface{}{"a"}, func(rows *sql.Rows) error {
			return rows.Scan(&day, &year)
		})
	checkNoError(t, err)
	checkIntEqual(t, "day_of_year", day, 134)
	checkIntEqual(t, "year", year, 2025)

	// The staging table is emptied after each batch.
	inserted, _, err = db.AppendRecords(ctx, records[:1])
	checkNoError(t, err)
	checkIntEqual(t, "inserted on retry", inserted, 0)
}
