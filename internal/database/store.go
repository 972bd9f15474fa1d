// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/sightmap/internal/metrics"
)

// RowScanner consumes one result row.
type RowScanner func(rows *sql.Rows) error

// Query runs a read-only query under the breaker and the configured
// per-call deadline, calling scan once per row. operation labels metrics.
func (db *DB) Query(ctx context.Context, operation, query string, args []interface{}, scan RowScanner) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, db.cfg.QueryTimeout)
	defer cancel()

	err := db.breaker.Execute(func() error {
		rows, err := db.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer closeWithLog(rows, "rows")

		for rows.Next() {
			if err := scan(rows); err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}
		}
		return rows.Err()
	})

	metrics.RecordDBQuery(operation, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", operation, err)
	}
	return nil
}

// CountRecords returns the number of stored occurrence records.
func (db *DB) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := db.Query(ctx, "count_records", "SELECT COUNT(*) FROM "+TableName, nil, func(rows *sql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}
