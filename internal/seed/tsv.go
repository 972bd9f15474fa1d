// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package seed reads the public observation export (tab separated, one
// identification per line) and bulk loads the accepted rows into the store.
package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/models"
	"github.com/tomtom215/sightmap/internal/validation"
)

// Column positions in the export.
const (
	ColSpecies    = 0
	ColPrediction = 1
	ColResultID   = 5
	ColTime       = 10
	ColLatitude   = 17
	ColLongitude  = 18
)

// maxLineBytes bounds a single export line.
const maxLineBytes = 1 << 20

// Skip reasons counted in Stats.Skipped.
const (
	SkipMalformed  = "malformed"
	SkipPrediction = "below_threshold"
	SkipMissing    = "missing_field"
	SkipYear       = "outside_years"
)

// timeLayouts are tried in order; the export writes local ISO 8601 without zone.
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Options filter the rows read from an export.
type Options struct {
	MaxRows   int     `validate:"gte=0"` // 0 = unlimited
	StartYear int     `validate:"gte=1900,lte=2100"`
	EndYear   int     `validate:"gte=1900,lte=2100,gtefield=StartYear"`
	Threshold float64 `validate:"gte=0,lte=1"`
	BatchSize int     `validate:"gte=1,lte=1000000"`
}

// OptionsFromConfig reads the seed defaults from configuration.
func OptionsFromConfig(c config.SeedConfig) Options {
	return Options{
		StartYear: c.StartYear,
		EndYear:   c.EndYear,
		Threshold: c.PredictionThreshold,
		BatchSize: c.BatchSize,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if verr := validation.ValidateStruct(o); verr != nil {
		return verr
	}
	return nil
}

// Stats counts what happened to each line.
type Stats struct {
	Lines    int            `json:"lines"`
	Accepted int            `json:"accepted"`
	Skipped  map[string]int `json:"skipped"`
	Inserted int            `json:"inserted"`
	Dupes    int            `json:"duplicates"`
}

func (s *Stats) skip(reason string) {
	if s.Skipped == nil {
		s.Skipped = make(map[string]int)
	}
	s.Skipped[reason]++
}

// ParseLine turns one export line into a record, or returns the skip reason.
// The prediction is checked first so low-confidence rows are dropped before
// any other parsing.
func ParseLine(line string, opts Options) (*models.OccurrenceRecord, string) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) <= ColPrediction {
		return nil, SkipMalformed
	}
	prediction, err := strconv.ParseFloat(strings.TrimSpace(fields[ColPrediction]), 64)
	if err != nil {
		return nil, SkipMalformed
	}
	if prediction < opts.Threshold {
		return nil, SkipPrediction
	}

	species := field(fields, ColSpecies)
	resultID := field(fields, ColResultID)
	rawTime := field(fields, ColTime)
	rawLat := field(fields, ColLatitude)
	rawLon := field(fields, ColLongitude)
	if species == "" || resultID == "" || rawTime == "" || rawLat == "" || rawLon == "" {
		return nil, SkipMissing
	}

	ts, err := parseTime(rawTime)
	if err != nil {
		return nil, SkipMalformed
	}
	if ts.Year() < opts.StartYear || ts.Year() > opts.EndYear {
		return nil, SkipYear
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lon, lonErr := strconv.ParseFloat(rawLon, 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, SkipMalformed
	}

	day, year := ts.YearDay(), ts.Year()
	return &models.OccurrenceRecord{
		ID:        resultID,
		Species:   &species,
		Time:      &ts,
		Latitude:  &lat,
		Longitude: &lon,
		DayOfYear: &day,
		Year:      &year,
	}, ""
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// errStop ends a scan early once MaxRows records were accepted.
var errStop = errors.New("row limit reached")

// Scan reads the export after its header line and calls emit with batches
// of at most opts.BatchSize accepted records. It stops after opts.MaxRows
// accepted records when MaxRows is positive.
func Scan(ctx context.Context, r io.Reader, opts Options, emit func([]*models.OccurrenceRecord) error) (Stats, error) {
	var stats Stats
	batch := make([]*models.OccurrenceRecord, 0, opts.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := emit(batch); err != nil {
			return err
		}
		batch = make([]*models.OccurrenceRecord, 0, opts.BatchSize)
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	header := true
	err := func() error {
		for scanner.Scan() {
			if header {
				header = false
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			stats.Lines++
			rec, reason := ParseLine(scanner.Text(), opts)
			if rec == nil {
				stats.skip(reason)
				continue
			}

			stats.Accepted++
			batch = append(batch, rec)
			if len(batch) >= opts.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
			if opts.MaxRows > 0 && stats.Accepted >= opts.MaxRows {
				return errStop
			}
		}
		return scanner.Err()
	}()
	if err != nil && !errors.Is(err, errStop) {
		return stats, fmt.Errorf("failed to read export at line %d: %w", stats.Lines+1, err)
	}

	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}
