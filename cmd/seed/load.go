// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sightmap/internal/logging"
	"github.com/tomtom215/sightmap/internal/seed"
)

type loadOptions struct {
	file      string
	maxRows   int
	startYear int
	endYear   int
	threshold float64
	batchSize int
	recreate  bool
}

func newLoadCommand(root *rootOptions) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load an observation export (tab separated, header line first)",
		Long: `Load reads the export line by line and keeps rows whose prediction meets the
threshold, whose year is in range and that have a species, result id, time
and coordinates. Rows whose result id is already stored are skipped.

Use --file - to read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "export file to load (required)")
	f.IntVar(&opts.maxRows, "max-rows", 0, "stop after this many accepted rows (0 = no limit)")
	f.IntVar(&opts.startYear, "start-year", 0, "first year to keep (default: seed.start_year)")
	f.IntVar(&opts.endYear, "end-year", 0, "last year to keep (default: seed.end_year)")
	f.Float64Var(&opts.threshold, "threshold", 0, "minimum prediction (default: seed.prediction_threshold)")
	f.IntVar(&opts.batchSize, "batch-size", 0, "rows per appender batch (default: seed.batch_size)")
	f.BoolVar(&opts.recreate, "recreate", false, "drop and recreate the table before loading")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// seedOptions applies the flags the user set over the configured defaults.
func (o *loadOptions) seedOptions(cmd *cobra.Command, defaults seed.Options) seed.Options {
	opts := defaults
	opts.MaxRows = o.maxRows
	flags := cmd.Flags()
	if flags.Changed("start-year") {
		opts.StartYear = o.startYear
	}
	if flags.Changed("end-year") {
		opts.EndYear = o.endYear
	}
	if flags.Changed("threshold") {
		opts.Threshold = o.threshold
	}
	if flags.Changed("batch-size") {
		opts.BatchSize = o.batchSize
	}
	return opts
}

func runLoad(cmd *cobra.Command, root *rootOptions, o *loadOptions) error {
	ctx := cmd.Context()

	var in io.Reader = cmd.InOrStdin()
	if o.file != "-" {
		file, err := os.Open(o.file)
		if err != nil {
			return fmt.Errorf("failed to open export: %w", err)
		}
		defer func() { _ = file.Close() }()
		in = file
	}

	db, err := root.openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	loader, err := seed.NewLoader(db, o.seedOptions(cmd, seed.OptionsFromConfig(root.cfg.Seed)))
	if err != nil {
		return err
	}

	if o.recreate {
		if err := db.Recreate(ctx); err != nil {
			return err
		}
		logging.Info().Msg("Recreated species_sightings")
	}

	stats, err := loader.Load(ctx, in)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d of %d rows (%d already stored).\n",
		stats.Inserted, stats.Lines, stats.Dupes)
	return err
}
