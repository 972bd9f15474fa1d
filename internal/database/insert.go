// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/metrics"
	"github.com/tomtom215/sightmap/internal/models"
)

const insertRecordSQL = `INSERT INTO species_sightings (
	id, species_name, time, latitude, longitude, day_of_year, year,
	recording_type, duration_seconds, feedback, user_id, generalization
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`

// InsertRecords writes a batch in one transaction. Records whose ID already
// exists are skipped and reported as duplicates; an empty ID gets a UUID.
func (db *DB) InsertRecords(ctx context.Context, records []*models.OccurrenceRecord) (inserted int, duplicates int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		res, execErr := stmt.ExecContext(ctx,
			rec.ID,
			deref(rec.Species),
			deref(rec.Time),
			deref(rec.Latitude),
			deref(rec.Longitude),
			deref(rec.DayOfYear),
			deref(rec.Year),
			deref(rec.RecordingType),
			deref(rec.DurationSeconds),
			deref(rec.Feedback),
			deref(rec.UserID),
			deref(rec.Generalization),
		)
		if execErr != nil {
			err = fmt.Errorf("failed to insert record %d (%s): %w", i, rec.ID, execErr)
			return 0, 0, err
		}
		if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
			duplicates++
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.RecordsLoaded.Add(float64(inserted))
	logging.Debug().Int("inserted", inserted).Int("duplicates", duplicates).Msg("Batch committed")
	return inserted, duplicates, nil
}

// deref turns an optional field into a bind value; nil binds SQL NULL.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
