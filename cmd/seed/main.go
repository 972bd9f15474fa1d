// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package main is sightmap-seed, the loader for the occurrence store.
//
//	sightmap-seed load --file mlk-public-data.txt --recreate
//	sightmap-seed proportions --output species_proportions.json
//
// Settings not given as flags come from the same configuration as the server
// (config.yaml and environment, for example DUCKDB_PATH).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/sightmap/internal/config"
	"github.com/tomtom215/sightmap/internal/database"
	"github.com/tomtom215/sightmap/internal/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type rootOptions struct {
	dbPath   string
	logLevel string
	cfg      *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "sightmap-seed",
		Short:   "Load occurrence records into the Sightmap store",
		Version: Version + " (" + GitCommit + ")",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.Database.Path = opts.dbPath
			}
			level := cfg.Logging.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			logging.Init(logging.Config{Level: level, Format: "console"})
			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.dbPath, "db", "", "DuckDB file (default: database.path from configuration)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newLoadCommand(opts), newProportionsCommand(opts))
	return cmd
}

// openStore opens the configured database; the caller closes it.
func (o *rootOptions) openStore() (*database.DB, error) {
	return database.New(&o.cfg.Database, o.cfg.Breaker)
}

func closeStore(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
