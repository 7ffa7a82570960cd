// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

const roomColumns = `id, name, short_desc, long_desc, enter_text, exit_text, creator_username, created_at`

// UpsertRoom inserts or replaces a room and its exits in one transaction.
func (r *Repository) UpsertRoom(ctx context.Context, room *world.Room) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO rooms (`+roomColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				short_desc = EXCLUDED.short_desc,
				long_desc = EXCLUDED.long_desc,
				enter_text = EXCLUDED.enter_text,
				exit_text = EXCLUDED.exit_text,
				creator_username = EXCLUDED.creator_username
		`, room.ID.String(), room.Name, room.ShortDescription, room.LongDescription,
			room.EnterText, room.ExitText, room.CreatorUsername, room.CreatedAt)
		if err != nil {
			return oops.With("operation", "upsert room").Wrap(err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM room_exits WHERE room_id = $1`, room.ID.String()); err != nil {
			return oops.With("operation", "clear room exits").Wrap(err)
		}
		for _, label := range room.ExitLabels() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO room_exits (room_id, label, target_id) VALUES ($1, $2, $3)
			`, room.ID.String(), label, room.Exits[label].String()); err != nil {
				return oops.With("operation", "insert room exit").With("label", label).Wrap(err)
			}
		}
		return nil
	})
	if err != nil {
		return oops.With("room_id", room.ID.String()).Wrap(err)
	}
	return nil
}

// GetRoom retrieves a room and its exits.
func (r *Repository) GetRoom(ctx context.Context, id world.RoomID) (*world.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(world.CodeNotFound).With("room_id", id.String()).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get room").With("room_id", id.String()).Wrap(err)
	}

	rows, err := r.db.Query(ctx, `SELECT room_id, label, target_id FROM room_exits WHERE room_id = $1`, id.String())
	if err != nil {
		return nil, oops.With("operation", "get room exits").With("room_id", id.String()).Wrap(err)
	}
	if err := attachExits(rows, map[world.RoomID]*world.Room{room.ID: room}); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms returns every room with its exits, ordered by ID.
func (r *Repository) ListRooms(ctx context.Context) ([]*world.Room, error) {
	rows, err := r.db.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		return nil, oops.With("operation", "list rooms").Wrap(err)
	}
	var rooms []*world.Room
	byID := make(map[world.RoomID]*world.Room)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			rows.Close()
			return nil, oops.With("operation", "scan room row").Wrap(err)
		}
		rooms = append(rooms, room)
		byID[room.ID] = room
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate rooms").Wrap(err)
	}

	exitRows, err := r.db.Query(ctx, `SELECT room_id, label, target_id FROM room_exits`)
	if err != nil {
		return nil, oops.With("operation", "list room exits").Wrap(err)
	}
	if err := attachExits(exitRows, byID); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CountRooms reports how many rooms are stored.
func (r *Repository) CountRooms(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM rooms`).Scan(&n); err != nil {
		return 0, oops.With("operation", "count rooms").Wrap(err)
	}
	return n, nil
}

func scanRoom(row pgx.Row) (*world.Room, error) {
	var (
		room world.Room
		id   string
	)
	if err := row.Scan(&id, &room.Name, &room.ShortDescription, &room.LongDescription,
		&room.EnterText, &room.ExitText, &room.CreatorUsername, &room.CreatedAt); err != nil {
		return nil, err
	}
	room.ID = world.RoomID(id)
	room.Exits = make(map[string]world.RoomID)
	return &room, nil
}

// attachExits reads exit rows into the rooms they belong to and closes rows.
func attachExits(rows pgx.Rows, rooms map[world.RoomID]*world.Room) error {
	defer rows.Close()
	for rows.Next() {
		var roomID, label, target string
		if err := rows.Scan(&roomID, &label, &target); err != nil {
			return oops.With("operation", "scan room exit").Wrap(err)
		}
		if room, ok := rooms[world.RoomID(roomID)]; ok {
			room.Exits[label] = world.RoomID(target)
		}
	}
	if err := rows.Err(); err != nil {
		return oops.With("operation", "iterate room exits").Wrap(err)
	}
	return nil
}
