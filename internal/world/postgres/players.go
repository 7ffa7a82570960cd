// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

const playerColumns = `id, username, description, password_hash, last_room_id, last_action_at, created_at`

// CreatePlayer inserts a new player. A case-insensitive username clash
// returns world.ErrUsernameTaken.
func (r *Repository) CreatePlayer(ctx context.Context, p *world.Player) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID.String(), p.Username, p.Description, p.PasswordHash, nullableRoom(p.LastRoomID),
		p.LastActionAt, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.With("username", p.Username).Wrap(world.ErrUsernameTaken)
		}
		return oops.With("operation", "create player").With("username", p.Username).Wrap(err)
	}
	return nil
}

// UpdatePlayer replaces a player's mutable fields.
func (r *Repository) UpdatePlayer(ctx context.Context, p *world.Player) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE players SET description = $2, password_hash = $3, last_room_id = $4, last_action_at = $5
		WHERE id = $1
	`, p.ID.String(), p.Description, p.PasswordHash, nullableRoom(p.LastRoomID), p.LastActionAt)
	if err != nil {
		return oops.With("operation", "update player").With("player_id", p.ID.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code(world.CodeNotFound).With("player_id", p.ID.String()).Wrap(world.ErrNotFound)
	}
	return nil
}

// GetPlayerByUsername looks a player up case-insensitively.
func (r *Repository) GetPlayerByUsername(ctx context.Context, username string) (*world.Player, error) {
	var (
		p          world.Player
		id         string
		lastRoomID *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT `+playerColumns+` FROM players WHERE lower(username) = lower($1)
	`, username).Scan(&id, &p.Username, &p.Description, &p.PasswordHash, &lastRoomID, &p.LastActionAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(world.CodeNotFound).With("username", username).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get player").With("username", username).Wrap(err)
	}
	if p.ID, err = ulid.Parse(id); err != nil {
		return nil, oops.With("operation", "parse player id").With("player_id", id).Wrap(err)
	}
	if lastRoomID != nil {
		p.LastRoomID = world.RoomID(*lastRoomID)
	}
	return &p, nil
}

func nullableRoom(id world.RoomID) *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}
