// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/tomtom215/sightmap/internal/database"
	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/metrics"
	"github.com/tomtom215/sightmap/internal/models"
)

const speciesIndexKey = "species_index"

// Species returns the index of every species in the unfiltered dataset, most
// recorded first with ties broken by name. Records without coordinates count
// too: the index describes the dataset, not the map.
func (a *Aggregator) Species(ctx context.Context) (models.SpeciesIndex, error) {
	if a.speciesCache != nil {
		if idx, ok := a.speciesCache.Get(speciesIndexKey); ok {
			metrics.SpeciesCacheHits.Inc()
			return idx, nil
		}
		metrics.SpeciesCacheMisses.Inc()
	}

	idx, err := a.loadSpecies(ctx)
	if err != nil {
		return models.SpeciesIndex{}, err
	}

	if a.speciesCache != nil {
		a.speciesCache.Set(speciesIndexKey, idx)
	}
	return idx, nil
}

// InvalidateSpecies drops the cached index so the next call re-reads the store.
func (a *Aggregator) InvalidateSpecies() {
	if a.speciesCache != nil {
		a.speciesCache.Delete(speciesIndexKey)
	}
}

func (a *Aggregator) loadSpecies(ctx context.Context) (models.SpeciesIndex, error) {
	sqlText := fmt.Sprintf(`
		SELECT NULLIF(species_name, '') AS species, COUNT(*) AS record_count
		FROM %s
		GROUP BY species`,
		database.TableName)

	idx := models.SpeciesIndex{Counts: make(map[string]int64)}
	err := a.store.Query(ctx, "species_index", sqlText, nil, func(rows *sql.Rows) error {
		var (
			name  sql.NullString
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return err
		}
		idx.Total += count
		if !name.Valid {
			idx.Unnamed += count
			return nil
		}
		idx.Counts[name.String] = count
		return nil
	})
	if err != nil {
		return models.SpeciesIndex{}, unavailable("species", err)
	}

	idx.Names = make([]string, 0, len(idx.Counts))
	for name := range idx.Counts {
		idx.Names = append(idx.Names, name)
	}
	sort.Slice(idx.Names, func(i, j int) bool {
		ci, cj := idx.Counts[idx.Names[i]], idx.Counts[idx.Names[j]]
		if ci != cj {
			return ci > cj
		}
		return idx.Names[i] < idx.Names[j]
	})

	logging.Ctx(ctx).Debug().
		Int("species", len(idx.Names)).
		Int64("records", idx.Total).
		Msg("Loaded species index")
	return idx, nil
}
