// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package models

import "testing"

func TestOccurrenceRecord_Plottable(t *testing.T) {
	lat, lon := 61.677, 29.645
	tests := []struct {
		name string
		rec  OccurrenceRecord
		want bool
	}{
		{"both coordinates", OccurrenceRecord{Latitude: &lat, Longitude: &lon}, true},
		{"missing longitude", OccurrenceRecord{Latitude: &lat}, false},
		{"missing both", OccurrenceRecord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Plottable(); got != tt.want {
				t.Errorf("Plottable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Selection(t *testing.T) {
	all := Filter{}
	if !all.AllSpecies() {
		t.Error("empty filter should select all species")
	}

	f := Filter{Species: []string{"Turdus merula"}}
	if f.AllSpecies() {
		t.Error("filter with species should not select all")
	}
	if !f.Selected("Turdus merula") || f.Selected("Sylvia communis") {
		t.Error("Selected() mismatch")
	}
	if name, ok := f.Single(); !ok || name != "Turdus merula" {
		t.Errorf("Single() = %q, %v", name, ok)
	}
	if _, ok := all.Single(); ok {
		t.Error("Single() on empty filter should report false")
	}
}

func TestSpeciesIndex_Proportion(t *testing.T) {
	idx := SpeciesIndex{
		Names:  []string{"Turdus merula", "Sylvia communis"},
		Counts: map[string]int64{"Turdus merula": 3, "Sylvia communis": 1},
		Total:  4,
	}
	if got := idx.Proportion("Turdus merula"); got != 0.75 {
		t.Errorf("Proportion = %v, want 0.75", got)
	}
	if got := idx.Proportion("Parus major"); got != 0 {
		t.Errorf("unknown species proportion = %v, want 0", got)
	}
	if (SpeciesIndex{}).Proportion("x") != 0 {
		t.Error("empty index proportion should be 0")
	}
	if !idx.Known("Sylvia communis") || idx.Known("Parus major") {
		t.Error("Known() mismatch")
	}
	if idx.Empty() || !(SpeciesIndex{}).Empty() {
		t.Error("Empty() mismatch")
	}
}
