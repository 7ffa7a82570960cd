// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

// DB is the subset of *pgxpool.Pool the repository uses. pgxmock pools
// satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// playerIDToStringPtr converts an optional player ID for SQL parameters.
func playerIDToStringPtr(id *world.PlayerID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// roomIDToStringPtr converts an optional room ID for SQL parameters.
func roomIDToStringPtr(id *world.RoomID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func objectIDToStringPtr(id *world.ObjectID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

// parseOptionalULID parses an optional ULID column, naming the field on failure.
func parseOptionalULID(strPtr *string, fieldName string) (*ulid.ULID, error) {
	if strPtr == nil {
		return nil, nil
	}
	id, err := ulid.Parse(*strPtr)
	if err != nil {
		return nil, oops.With("operation", "parse "+fieldName).With(fieldName, *strPtr).Wrap(err)
	}
	return &id, nil
}
