// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package database

import (
	"context"
	"fmt"
)

// TableName is the occurrence table read by every map query.
const TableName = "species_sightings"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS species_sightings (
		id VARCHAR PRIMARY KEY,
		species_name VARCHAR,
		time TIMESTAMP,
		latitude DOUBLE,
		longitude DOUBLE,
		day_of_year INTEGER,
		year INTEGER,
		recording_type VARCHAR,
		duration_seconds DOUBLE,
		feedback VARCHAR,
		user_id VARCHAR,
		generalization INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_species ON species_sightings(species_name)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_year ON species_sightings(year)`,
}

func (db *DB) initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Recreate drops and recreates the occurrence table.
func (db *DB) Recreate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableName); err != nil {
		return fmt.Errorf("failed to drop %s: %w", TableName, err)
	}
	return db.initialize(ctx)
}
