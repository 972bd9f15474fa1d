// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/sightmap/internal/aggregate"
	"github.com/tomtom215/sightmap/internal/seed"
)

func newProportionsCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "proportions",
		Short: "Print each species' share of all stored records as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := root.openStore()
			if err != nil {
				return err
			}
			defer closeStore(db)

			idx, err := aggregate.New(db, nil).Species(cmd.Context())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(seed.Proportions(idx), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode proportions: %w", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // output is a public data file
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved proportions of %d species (%d records) to %s\n",
				len(idx.Names), idx.Total, output)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of standard output")
	return cmd
}
