// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/config"
	"github.com/lanternmush/lantern/internal/seed"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
	"github.com/lanternmush/lantern/internal/world/bolt"
	worldpg "github.com/lanternmush/lantern/internal/world/postgres"
	"github.com/lanternmush/lantern/internal/xdg"
)

// backend is an open world repository and the function that releases it.
type backend struct {
	name  string
	repo  world.Repository
	close func()
}

// openBackend opens the repository selected by cfg.Backend. For postgres it
// applies pending migrations first when AutoMigrate is set.
func openBackend(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := store.OpenPool(ctx, store.PoolConfig{
			URL:            cfg.URL,
			MaxConns:       cfg.MaxConns,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := migrateUp(ctx, cfg.URL); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &backend{name: cfg.Backend, repo: worldpg.New(pool), close: pool.Close}, nil

	case config.BackendBolt:
		if err := xdg.EnsureDir(filepath.Dir(cfg.BoltPath)); err != nil {
			return nil, err
		}
		repo, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return &backend{name: cfg.Backend, repo: repo, close: func() {
			if err := repo.Close(); err != nil {
				slog.Warn("failed to close bolt database", "path", repo.Path(), "error", err)
			}
		}}, nil

	case config.BackendMemory:
		return &backend{name: cfg.Backend, repo: world.NewMemoryRepository(), close: func() {}}, nil
	}
	return nil, oops.Code(config.CodeInvalid).With("backend", cfg.Backend).Errorf("unknown storage backend %q", cfg.Backend)
}

// migrateUp applies every pending migration and logs the resulting version.
func migrateUp(ctx context.Context, url string) error {
	migrator, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.WarnContext(ctx, "failed to close migrator", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		slog.DebugContext(ctx, "database schema up to date")
		return nil
	}
	if err := migrator.Up(); err != nil {
		return err
	}
	slog.InfoContext(ctx, "applied migrations", "count", len(pending))
	return nil
}

// loadDefinition reads the world definition named by cfg, or the built-in
// one, applying the configured start room override.
func loadDefinition(cfg config.WorldConfig) (*seed.Definition, error) {
	var (
		def *seed.Definition
		err error
	)
	if cfg.SeedFile != "" {
		def, err = seed.LoadFile(cfg.SeedFile)
	} else {
		def, err = seed.Default()
	}
	if err != nil {
		return nil, err
	}
	if cfg.StartRoom != "" {
		def.StartRoom = cfg.StartRoom
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	return def, nil
}
