// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package postgres implements world.Repository on PostgreSQL. The schema is
// owned by the migrations in internal/store.
package postgres

import (
	"github.com/lanternmush/lantern/internal/world"
)

// Repository implements world.Repository using PostgreSQL.
type Repository struct {
	db DB
}

var _ world.Repository = (*Repository)(nil)

// New creates a repository over db, normally a *pgxpool.Pool.
func New(db DB) *Repository {
	return &Repository{db: db}
}
