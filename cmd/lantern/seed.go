// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lanternmush/lantern/internal/config"
	"github.com/lanternmush/lantern/internal/seed"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	opts := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the world definition into the configured store",
		Long: `Upserts every room and object of the world definition (--seed-file, or the
built-in world) into the configured store. Entities are keyed by their IDs,
so running it again leaves the store unchanged. Players are never touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg.Log)
			return runSeed(cmd, cfg, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultSeedTimeout, "timeout for storage operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *config.Config, opts *seedConfig) error {
	// cmd.Context() carries SIGINT/SIGTERM cancellation.
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	def, err := loadDefinition(cfg.World)
	if err != nil {
		return err
	}

	cmd.Printf("Opening %s store...\n", cfg.Store.Backend)
	be, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer be.close()

	stats, err := seed.Seed(ctx, be.repo, def)
	if err != nil {
		return err
	}

	cmd.Printf("Seeded %d rooms and %d objects (start room %s)\n", stats.Rooms, stats.Objects, def.StartRoom)
	return nil
}
