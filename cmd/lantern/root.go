// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/lanternmush/lantern/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Lantern CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lantern",
		Short: "Lantern - a multi-user text world server",
		Long: `Lantern runs a persistent multi-user text world: rooms, objects and
players served over telnet by a single game loop, with scripted object verbs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/lantern/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewValidateWorldCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("lantern " + versionString())
			return nil
		},
	}
}

// loadConfig reads the configuration for cmd: defaults, the config file,
// then any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
