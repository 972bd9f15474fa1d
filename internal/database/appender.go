// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/metrics"
	"github.com/tomtom215/sightmap/internal/models"
)

// stagingTable receives appender rows before they are merged into TableName.
// It has no key, so the appender never fails on a duplicate.
const stagingTable = "species_sightings_staging"

const createStagingSQL = `CREATE TABLE IF NOT EXISTS ` + stagingTable + ` (
	id VARCHAR,
	species_name VARCHAR,
	time TIMESTAMP,
	latitude DOUBLE,
	longitude DOUBLE,
	day_of_year INTEGER,
	year INTEGER
)`

const mergeStagingSQL = `INSERT INTO ` + TableName + ` (id, species_name, time, latitude, longitude, day_of_year, year)
	SELECT DISTINCT ON (id) id, species_name, time, latitude, longitude, day_of_year, year
	FROM ` + stagingTable + `
	ON CONFLICT DO NOTHING`

var errNotDuckDB = errors.New("driver connection is not a DuckDB connection")

// AppendRecords bulk loads the seed columns of records (id, species, time,
// coordinates, day and year) with the DuckDB appender. Rows go to a staging
// table first and are then merged, so IDs already stored or repeated within
// the batch count as duplicates instead of failing the load.
func (db *DB) AppendRecords(ctx context.Context, records []*models.OccurrenceRecord) (inserted int, duplicates int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer closeWithLog(conn, "connection")

	if _, err := conn.ExecContext(ctx, createStagingSQL); err != nil {
		return 0, 0, fmt.Errorf("failed to create staging table: %w", err)
	}
	defer func() {
		if _, delErr := conn.ExecContext(context.Background(), "DELETE FROM "+stagingTable); delErr != nil {
			logging.Warn().Err(delErr).Msg("Failed to clear staging table")
		}
	}()

	err = conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return errNotDuckDB
		}
		appender, err := duckdb.NewAppenderFromConn(dc, "", stagingTable)
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer closeWithLog(appender, "appender")

		for i, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			if err := appender.AppendRow(appendValues(rec)...); err != nil {
				return fmt.Errorf("failed to append record %d (%s): %w", i, rec.ID, err)
			}
		}
		return appender.Flush()
	})
	if err != nil {
		return 0, 0, err
	}

	res, err := conn.ExecContext(ctx, mergeStagingSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to merge staged records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count merged records: %w", err)
	}

	inserted = int(n)
	duplicates = len(records) - inserted
	metrics.RecordsLoaded.Add(float64(inserted))
	logging.Debug().Int("inserted", inserted).Int("duplicates", duplicates).Msg("Batch appended")
	return inserted, duplicates, nil
}

// appendValues orders a record's seed columns as in the staging table.
func appendValues(rec *models.OccurrenceRecord) []driver.Value {
	return []driver.Value{
		rec.ID,
		deref(rec.Species),
		deref(rec.Time),
		deref(rec.Latitude),
		deref(rec.Longitude),
		int32Of(rec.DayOfYear),
		int32Of(rec.Year),
	}
}

func int32Of(p *int) driver.Value {
	if p == nil {
		return nil
	}
	return int32(*p)
}
