// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package aggregate turns a filtered set of occurrence records into
// per-location summaries. All grouping and filtering happens in the store;
// this package only builds the SQL, scans the rows and optionally merges raw
// locations into S2 cells.
//
// Every store failure is returned as an *UnavailableError. An empty slice with
// a nil error means the filter matched nothing.
package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/sightmap/internal/cache"
	"github.com/tomtom215/sightmap/internal/database"
	"github.com/tomtom215/sightmap/internal/database/query"
	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/models"
)

// Store executes read-only SQL, calling scan once per row.
// *database.DB satisfies it.
type Store interface {
	Query(ctx context.Context, operation, sql string, args []interface{}, scan database.RowScanner) error
}

// Binning selects the spatial key.
type Binning int

const (
	// BinNone groups by the stored coordinate.
	BinNone Binning = iota
	// BinS2 merges stored coordinates into S2 cells of Query.S2Level.
	BinS2
)

// Query selects the records to aggregate.
type Query struct {
	// Species restricts to these names. Empty means every record, including
	// records without a species.
	Species []string
	Bounds  *models.Bounds
	Binning Binning
	S2Level int
}

// QueryFor derives the aggregation query for a request filter. A positive
// s2Level turns on S2 binning.
func QueryFor(f models.Filter, s2Level int) Query {
	q := Query{Species: f.Species}
	if s2Level > 0 {
		q.Binning = BinS2
		q.S2Level = s2Level
	}
	return q
}

func (q Query) where() *query.WhereBuilder {
	wb := query.NewWhereBuilder().AddCoordinatesPresent().AddSpecies(q.Species)
	if q.Bounds != nil {
		wb.AddBounds(q.Bounds.South, q.Bounds.West, q.Bounds.North, q.Bounds.East)
	}
	return wb
}

// namedSpecies is true for records that carry a species name.
const namedSpecies = "NULLIF(species_name, '') IS NOT NULL"

// dayOfYear falls back to the timestamp when the stored day is missing.
const dayOfYear = "COALESCE(day_of_year, dayofyear(time))"

// Aggregator runs grouping queries against the store.
type Aggregator struct {
	store        Store
	speciesCache *cache.Cache[models.SpeciesIndex]
}

// New creates an aggregator. speciesCache may be nil, in which case the
// species index is computed on every call.
func New(store Store, speciesCache *cache.Cache[models.SpeciesIndex]) *Aggregator {
	return &Aggregator{store: store, speciesCache: speciesCache}
}

// Points returns one AggregatedPoint per location, ordered by latitude then
// longitude. Records without coordinates never contribute, and records without
// a species are counted in UnnamedCount only.
func (a *Aggregator) Points(ctx context.Context, q Query) ([]models.AggregatedPoint, error) {
	where, args := q.where().BuildWithPrefix()

	sqlText := fmt.Sprintf(`
		SELECT
			latitude,
			longitude,
			COUNT(*) AS record_count,
			list_sort(list(DISTINCT species_name) FILTER (WHERE %[1]s)) AS species,
			COUNT(*) FILTER (WHERE NOT (%[1]s)) AS unnamed_count,
			MIN(time) AS earliest,
			MAX(time) AS latest,
			MIN(%[2]s) AS min_day
		FROM %[3]s
		%[4]s
		GROUP BY latitude, longitude
		ORDER BY latitude, longitude`,
		namedSpecies, dayOfYear, database.TableName, where)

	var points []models.AggregatedPoint
	err := a.store.Query(ctx, "aggregate_points", sqlText, args, func(rows *sql.Rows) error {
		var (
			p        models.AggregatedPoint
			species  interface{}
			earliest sql.NullTime
			latest   sql.NullTime
			minDay   sql.NullInt64
		)
		if err := rows.Scan(
			&p.Key.Latitude,
			&p.Key.Longitude,
			&p.Count,
			&species,
			&p.UnnamedCount,
			&earliest,
			&latest,
			&minDay,
		); err != nil {
			return err
		}
		p.Species = toStrings(species)
		p.Earliest = nullTime(earliest)
		p.Latest = nullTime(latest)
		p.MinDay = nullInt(minDay)
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, unavailable("points", err)
	}

	if q.Binning == BinS2 {
		points = binS2(points, q.S2Level)
	}

	logging.Ctx(ctx).Debug().
		Int("points", len(points)).
		Int("species_filter", len(q.Species)).
		Msg("Aggregated points")
	return emptyIfNil(points), nil
}

// ProportionPoints returns, for every location where species was recorded,
// the total record count (Count) and the species' own count (SpeciesCount).
// Earliest and Latest cover the species' records only.
func (a *Aggregator) ProportionPoints(ctx context.Context, species string, bounds *models.Bounds) ([]models.AggregatedPoint, error) {
	q := Query{Bounds: bounds}
	where, whereArgs := q.where().BuildWithPrefix()

	sqlText := fmt.Sprintf(`
		SELECT
			latitude,
			longitude,
			COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE species_name = ?) AS species_count,
			MIN(time) FILTER (WHERE species_name = ?) AS earliest,
			MAX(time) FILTER (WHERE species_name = ?) AS latest
		FROM %s
		%s
		GROUP BY latitude, longitude
		HAVING COUNT(*) FILTER (WHERE species_name = ?) > 0
		ORDER BY latitude, longitude`,
		database.TableName, where)

	args := make([]interface{}, 0, len(whereArgs)+4)
	args = append(args, species, species, species)
	args = append(args, whereArgs...)
	args = append(args, species)

	var points []models.AggregatedPoint
	err := a.store.Query(ctx, "aggregate_proportion", sqlText, args, func(rows *sql.Rows) error {
		var (
			p        models.AggregatedPoint
			earliest sql.NullTime
			latest   sql.NullTime
		)
		if err := rows.Scan(&p.Key.Latitude, &p.Key.Longitude, &p.Count, &p.SpeciesCount, &earliest, &latest); err != nil {
			return err
		}
		p.Species = []string{species}
		p.Earliest = nullTime(earliest)
		p.Latest = nullTime(latest)
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, unavailable("proportion_points", err)
	}
	return emptyIfNil(points), nil
}

// DailyPoints groups by location and day of year, ordered by day. Records
// with neither a stored day nor a timestamp are skipped.
func (a *Aggregator) DailyPoints(ctx context.Context, q Query) ([]models.AggregatedPoint, error) {
	wb := q.where().AddClause(dayOfYear + " IS NOT NULL")
	where, args := wb.BuildWithPrefix()

	sqlText := fmt.Sprintf(`
		SELECT
			latitude,
			longitude,
			%[1]s AS doy,
			COUNT(*) AS record_count
		FROM %[2]s
		%[3]s
		GROUP BY latitude, longitude, doy
		ORDER BY doy, latitude, longitude`,
		dayOfYear, database.TableName, where)

	var points []models.AggregatedPoint
	err := a.store.Query(ctx, "aggregate_daily", sqlText, args, func(rows *sql.Rows) error {
		var p models.AggregatedPoint
		if err := rows.Scan(&p.Key.Latitude, &p.Key.Longitude, &p.Day, &p.Count); err != nil {
			return err
		}
		points = append(points, p)
		return nil
	})
	if err != nil {
		return nil, unavailable("daily_points", err)
	}

	if q.Binning == BinS2 {
		points = binS2Daily(points, q.S2Level)
	}
	return emptyIfNil(points), nil
}

// WeeklyHistogram counts records per Monday-starting week. Coordinates are
// not required; records without a timestamp are skipped. HeightPct is
// relative to the busiest week.
func (a *Aggregator) WeeklyHistogram(ctx context.Context, q Query) ([]models.HistogramBucket, error) {
	wb := query.NewWhereBuilder().AddSpecies(q.Species).AddClause("time IS NOT NULL")
	where, args := wb.BuildWithPrefix()

	sqlText := fmt.Sprintf(`
		SELECT
			CAST(date_trunc('week', time) AS DATE) AS week,
			COUNT(*) AS record_count
		FROM %s
		%s
		GROUP BY week
		ORDER BY week`,
		database.TableName, where)

	var buckets []models.HistogramBucket
	err := a.store.Query(ctx, "weekly_histogram", sqlText, args, func(rows *sql.Rows) error {
		var b models.HistogramBucket
		if err := rows.Scan(&b.Week, &b.Count); err != nil {
			return err
		}
		buckets = append(buckets, b)
		return nil
	})
	if err != nil {
		return nil, unavailable("weekly_histogram", err)
	}

	var maxCount int64 = 1
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for i := range buckets {
		buckets[i].Label = buckets[i].Week.Format("Jan 02")
		buckets[i].HeightPct = 100 * float64(buckets[i].Count) / float64(maxCount)
	}
	return emptyIfNilBuckets(buckets), nil
}

func toStrings(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func emptyIfNil(points []models.AggregatedPoint) []models.AggregatedPoint {
	if points == nil {
		return []models.AggregatedPoint{}
	}
	return points
}

func emptyIfNilBuckets(buckets []models.HistogramBucket) []models.HistogramBucket {
	if buckets == nil {
		return []models.HistogramBucket{}
	}
	return buckets
}
