// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/lanternmush/lantern/internal/seed"
)

// NewValidateWorldCmd creates the validate-world subcommand.
func NewValidateWorldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-world <file>",
		Short: "Validate a world definition without starting the server",
		Long: `Checks a world definition file against the schema and its own
references: unique IDs, exits and keys that resolve, known flags.
Does NOT open a store. Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch world errors early:
  lantern validate-world world.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateWorld(cmd, args[0])
		},
	}
}

func runValidateWorld(cmd *cobra.Command, path string) error {
	def, err := seed.LoadFile(path)
	if err != nil {
		cmd.PrintErrf("%s: %v\n", path, err)
		return err
	}

	cmd.Printf("%s: valid (%d rooms, %d objects, start room %s)\n", path, len(def.Rooms), len(def.Objects), def.StartRoom)
	return nil
}
