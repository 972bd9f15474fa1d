// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sightmap/internal/seed"
)

func exportLine(species, id, ts string) string {
	fields := make([]string, 20)
	fields[seed.ColSpecies] = species
	fields[seed.ColPrediction] = "0.95"
	fields[seed.ColResultID] = id
	fields[seed.ColTime] = ts
	fields[seed.ColLatitude] = "61.68"
	fields[seed.ColLongitude] = "29.65"
	return strings.Join(fields, "\t")
}

func writeExport(t *testing.T, dir string) string {
	t.Helper()
	lines := []string{
		strings.Repeat("h\t", 19) + "h",
		exportLine("Sylvia communis", "r1", "2025-05-16T11:43:27"),
		exportLine("Sylvia communis", "r2", "2025-05-17T06:10:00"),
		exportLine("Turdus merula", "r3", "2025-05-18T04:00:00"),
		exportLine("Turdus merula", "r4", "2023-05-18T04:00:00"),
	}
	path := filepath.Join(dir, "export.tsv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestLoadAndProportions(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sightings.duckdb")
	export := writeExport(t, dir)

	out := execute(t, "load", "--db", dbPath, "--file", export, "--start-year", "2025", "--end-year", "2025", "--log-level", "error")
	if !strings.Contains(out, "Loaded 3 of 4 rows (0 already stored)") {
		t.Errorf("first load output = %q", out)
	}

	out = execute(t, "load", "--db", dbPath, "--file", export, "--start-year", "2025", "--end-year", "2025", "--log-level", "error")
	if !strings.Contains(out, "Loaded 0 of 4 rows (3 already stored)") {
		t.Errorf("second load output = %q", out)
	}

	outFile := filepath.Join(dir, "proportions.json")
	execute(t, "proportions", "--db", dbPath, "--output", outFile, "--log-level", "error")

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read proportions: %v", err)
	}
	var got map[string]float64
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode proportions: %v", err)
	}
	if got["Sylvia communis"] != 0.6667 || got["Turdus merula"] != 0.3333 {
		t.Errorf("proportions = %v", got)
	}
}

func TestLoad_RequiresFile(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"load", "--db", filepath.Join(t.TempDir(), "x.duckdb")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("load without --file succeeded")
	}
}
