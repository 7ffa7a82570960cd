// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

const objectColumns = `id, name, description, text_content, flags, key_id, owner_id, location_id, creator_username, verbs, created_at`

// UpsertObject inserts or replaces an object.
func (r *Repository) UpsertObject(ctx context.Context, obj *world.Object) error {
	verbs, err := encodeVerbs(obj.Verbs)
	if err != nil {
		return oops.With("object_id", obj.ID.String()).Wrap(err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO objects (`+objectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			text_content = EXCLUDED.text_content,
			flags = EXCLUDED.flags,
			key_id = EXCLUDED.key_id,
			owner_id = EXCLUDED.owner_id,
			location_id = EXCLUDED.location_id,
			creator_username = EXCLUDED.creator_username,
			verbs = EXCLUDED.verbs
	`, obj.ID.String(), obj.Name, obj.Description, obj.TextContent, int64(obj.Flags),
		objectIDToStringPtr(obj.KeyID), playerIDToStringPtr(obj.OwnerID), roomIDToStringPtr(obj.LocationID),
		obj.CreatorUsername, verbs, obj.CreatedAt)
	if err != nil {
		return oops.With("operation", "upsert object").With("object_id", obj.ID.String()).Wrap(err)
	}
	return nil
}

// DeleteObject removes an object. A missing object is not an error.
func (r *Repository) DeleteObject(ctx context.Context, id world.ObjectID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM objects WHERE id = $1`, id.String()); err != nil {
		return oops.With("operation", "delete object").With("object_id", id.String()).Wrap(err)
	}
	return nil
}

// ListRoomObjects returns every object lying in some room.
func (r *Repository) ListRoomObjects(ctx context.Context) ([]*world.Object, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+objectColumns+` FROM objects WHERE location_id IS NOT NULL ORDER BY created_at, id
	`)
	if err != nil {
		return nil, oops.With("operation", "list room objects").Wrap(err)
	}
	return scanObjects(rows)
}

// ListInventory returns the objects carried by a player.
func (r *Repository) ListInventory(ctx context.Context, owner world.PlayerID) ([]*world.Object, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+objectColumns+` FROM objects WHERE owner_id = $1 ORDER BY created_at, id
	`, owner.String())
	if err != nil {
		return nil, oops.With("operation", "list inventory").With("player_id", owner.String()).Wrap(err)
	}
	return scanObjects(rows)
}

func scanObjects(rows pgx.Rows) ([]*world.Object, error) {
	defer rows.Close()
	var objects []*world.Object
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate objects").Wrap(err)
	}
	return objects, nil
}

func scanObject(row pgx.Row) (*world.Object, error) {
	var (
		obj                        world.Object
		id                         string
		flags                      int64
		keyID, ownerID, locationID *string
		verbs                      []byte
	)
	if err := row.Scan(&id, &obj.Name, &obj.Description, &obj.TextContent, &flags,
		&keyID, &ownerID, &locationID, &obj.CreatorUsername, &verbs, &obj.CreatedAt); err != nil {
		return nil, oops.With("operation", "scan object row").Wrap(err)
	}
	obj.ID = world.ObjectID(id)
	obj.Flags = world.Flags(flags)
	if keyID != nil {
		k := world.ObjectID(*keyID)
		obj.KeyID = &k
	}
	if locationID != nil {
		l := world.RoomID(*locationID)
		obj.LocationID = &l
	}
	owner, err := parseOptionalULID(ownerID, "owner_id")
	if err != nil {
		return nil, oops.With("object_id", id).Wrap(err)
	}
	obj.OwnerID = owner
	if obj.Verbs, err = decodeVerbs(verbs); err != nil {
		return nil, oops.With("object_id", id).Wrap(err)
	}
	return &obj, nil
}

func encodeVerbs(verbs map[string]string) ([]byte, error) {
	if len(verbs) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(verbs)
	if err != nil {
		return nil, oops.With("operation", "encode verbs").Wrap(err)
	}
	return b, nil
}

func decodeVerbs(b []byte) (map[string]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var verbs map[string]string
	if err := json.Unmarshal(b, &verbs); err != nil {
		return nil, oops.With("operation", "decode verbs").Wrap(err)
	}
	if len(verbs) == 0 {
		return nil, nil
	}
	return verbs, nil
}
