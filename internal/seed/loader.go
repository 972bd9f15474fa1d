// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package seed

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/models"
)

// Sink stores a batch, reporting inserted and duplicate counts.
// *database.DB satisfies it through AppendRecords.
type Sink interface {
	AppendRecords(ctx context.Context, records []*models.OccurrenceRecord) (inserted int, duplicates int, err error)
}

// Loader streams an export into a Sink in batches.
type Loader struct {
	sink Sink
	opts Options
}

// NewLoader validates opts.
func NewLoader(sink Sink, opts Options) (*Loader, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed options: %w", err)
	}
	return &Loader{sink: sink, opts: opts}, nil
}

// Load reads r to the end (or the row limit) and writes every accepted row.
// Batches already written stay written when a later batch fails.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	var inserted, dupes int

	stats, err := Scan(ctx, r, l.opts, func(batch []*models.OccurrenceRecord) error {
		n, d, err := l.sink.AppendRecords(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to store batch: %w", err)
		}
		inserted += n
		dupes += d
		logging.Info().
			Int("batch", len(batch)).
			Int("inserted_total", inserted).
			Msg("Batch loaded")
		return nil
	})
	stats.Inserted = inserted
	stats.Dupes = dupes

	event := logging.Info()
	if err != nil {
		event = logging.Error().Err(err)
	}
	event.
		Int("lines", stats.Lines).
		Int("accepted", stats.Accepted).
		Int("inserted", stats.Inserted).
		Int("duplicates", stats.Dupes).
		Interface("skipped", stats.Skipped).
		Dur("duration", time.Since(start)).
		Msg("Seed load finished")

	return stats, err
}

// Proportions gives each species' share of all records in idx, rounded to
// four decimals.
func Proportions(idx models.SpeciesIndex) map[string]float64 {
	out := make(map[string]float64, len(idx.Names))
	for _, name := range idx.Names {
		out[name] = math.Round(idx.Proportion(name)*10000) / 10000
	}
	return out
}
