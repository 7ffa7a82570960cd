// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package bolt implements world.Repository on an embedded bbolt file, for
// single-node servers that do not want a PostgreSQL dependency.
package bolt

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.etcd.io/bbolt"

	"github.com/lanternmush/lantern/internal/world"
)

var (
	bucketRooms     = []byte("rooms")
	bucketObjects   = []byte("objects")
	bucketPlayers   = []byte("players")
	bucketUsernames = []byte("usernames")
)

// Repository implements world.Repository over a bbolt database. Values are
// JSON records keyed by entity ID; usernames has lowercased usernames as
// keys and player IDs as values.
type Repository struct {
	db *bbolt.DB
}

var _ world.Repository = (*Repository)(nil)

// Open opens or creates the database at path and ensures its buckets exist.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, oops.Code("BOLT_PATH_MISSING").Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	db, err := bbolt.Open(clean, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, oops.Code("BOLT_OPEN_FAILED").With("path", clean).Wrap(err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketRooms, bucketObjects, bucketPlayers, bucketUsernames} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return oops.With("bucket", string(name)).Wrap(err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, oops.Code("BOLT_OPEN_FAILED").With("path", clean).Wrap(err)
	}
	return &Repository{db: db}, nil
}

// Close closes the database file.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.db.Path()
}

type roomRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_desc"`
	LongDescription  string            `json:"long_desc,omitempty"`
	EnterText        string            `json:"enter_text,omitempty"`
	ExitText         string            `json:"exit_text,omitempty"`
	CreatorUsername  *string           `json:"creator_username,omitempty"`
	Exits            map[string]string `json:"exits,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

type objectRecord struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	TextContent     *string           `json:"text_content,omitempty"`
	Flags           uint32            `json:"flags"`
	KeyID           *string           `json:"key_id,omitempty"`
	OwnerID         *ulid.ULID        `json:"owner_id,omitempty"`
	LocationID      *string           `json:"location_id,omitempty"`
	CreatorUsername *string           `json:"creator_username,omitempty"`
	Verbs           map[string]string `json:"verbs,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type playerRecord struct {
	ID           ulid.ULID `json:"id"`
	Username     string    `json:"username"`
	Description  string    `json:"description,omitempty"`
	PasswordHash string    `json:"password_hash"`
	LastRoomID   string    `json:"last_room_id,omitempty"`
	LastActionAt time.Time `json:"last_action_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpsertRoom stores a room and its exits.
func (r *Repository) UpsertRoom(ctx context.Context, room *world.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec := roomRecord{
		ID:               room.ID.String(),
		Name:             room.Name,
		ShortDescription: room.ShortDescription,
		LongDescription:  room.LongDescription,
		EnterText:        room.EnterText,
		ExitText:         room.ExitText,
		CreatorUsername:  room.CreatorUsername,
		CreatedAt:        room.CreatedAt,
	}
	if len(room.Exits) > 0 {
		rec.Exits = make(map[string]string, len(room.Exits))
		for label, target := range room.Exits {
			rec.Exits[label] = target.String()
		}
	}
	return r.put(bucketRooms, []byte(rec.ID), rec, "room_id")
}

// GetRoom retrieves a room by ID.
func (r *Repository) GetRoom(ctx context.Context, id world.RoomID) (*world.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec roomRecord
	found, err := r.get(bucketRooms, []byte(id), &rec)
	if err != nil {
		return nil, oops.With("room_id", id.String()).Wrap(err)
	}
	if !found {
		return nil, oops.Code(world.CodeNotFound).With("room_id", id.String()).Wrap(world.ErrNotFound)
	}
	return rec.room(), nil
}

// ListRooms returns every room ordered by ID.
func (r *Repository) ListRooms(ctx context.Context) ([]*world.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rooms []*world.Room
	err := r.db.View(func(tx *bbolt.Tx) error {
		// bbolt iterates keys in byte order, which is ID order.
		return tx.Bucket(bucketRooms).ForEach(func(k, v []byte) error {
			var rec roomRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return oops.With("room_id", string(k)).Wrap(err)
			}
			rooms = append(rooms, rec.room())
			return nil
		})
	})
	if err != nil {
		return nil, oops.Code("BOLT_READ_FAILED").With("operation", "list rooms").Wrap(err)
	}
	return rooms, nil
}

// CountRooms reports how many rooms are stored.
func (r *Repository) CountRooms(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := r.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketRooms).Stats().KeyN
		return nil
	})
	return n, err
}

// UpsertObject stores an object.
func (r *Repository) UpsertObject(ctx context.Context, obj *world.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec := objectRecord{
		ID:              obj.ID.String(),
		Name:            obj.Name,
		Description:     obj.Description,
		TextContent:     obj.TextContent,
		Flags:           uint32(obj.Flags),
		OwnerID:         obj.OwnerID,
		CreatorUsername: obj.CreatorUsername,
		Verbs:           obj.Verbs,
		CreatedAt:       obj.CreatedAt,
	}
	if obj.KeyID != nil {
		k := obj.KeyID.String()
		rec.KeyID = &k
	}
	if obj.LocationID != nil {
		l := obj.LocationID.String()
		rec.LocationID = &l
	}
	return r.put(bucketObjects, []byte(rec.ID), rec, "object_id")
}

// DeleteObject removes an object. A missing object is not an error.
func (r *Repository) DeleteObject(ctx context.Context, id world.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObjects).Delete([]byte(id))
	})
	if err != nil {
		return oops.Code("BOLT_WRITE_FAILED").With("object_id", id.String()).Wrap(err)
	}
	return nil
}

// ListRoomObjects returns every object lying in some room.
func (r *Repository) ListRoomObjects(ctx context.Context) ([]*world.Object, error) {
	return r.listObjects(ctx, func(rec *objectRecord) bool { return rec.LocationID != nil })
}

// ListInventory returns the objects carried by a player.
func (r *Repository) ListInventory(ctx context.Context, owner world.PlayerID) ([]*world.Object, error) {
	return r.listObjects(ctx, func(rec *objectRecord) bool {
		return rec.OwnerID != nil && *rec.OwnerID == owner
	})
}

func (r *Repository) listObjects(ctx context.Context, keep func(*objectRecord) bool) ([]*world.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var objects []*world.Object
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObjects).ForEach(func(k, v []byte) error {
			var rec objectRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return oops.With("object_id", string(k)).Wrap(err)
			}
			if keep(&rec) {
				objects = append(objects, rec.object())
			}
			return nil
		})
	})
	if err != nil {
		return nil, oops.Code("BOLT_READ_FAILED").With("operation", "list objects").Wrap(err)
	}
	sort.SliceStable(objects, func(i, j int) bool {
		if !objects[i].CreatedAt.Equal(objects[j].CreatedAt) {
			return objects[i].CreatedAt.Before(objects[j].CreatedAt)
		}
		return objects[i].ID < objects[j].ID
	})
	return objects, nil
}

// CreatePlayer stores a new player. A case-insensitive username clash
// returns world.ErrUsernameTaken.
func (r *Repository) CreatePlayer(ctx context.Context, p *world.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(playerRecordOf(p))
	if err != nil {
		return oops.With("player_id", p.ID.String()).Wrap(err)
	}
	key := usernameKey(p.Username)
	return r.db.Update(func(tx *bbolt.Tx) error {
		names := tx.Bucket(bucketUsernames)
		if names.Get(key) != nil {
			return oops.With("username", p.Username).Wrap(world.ErrUsernameTaken)
		}
		if err := names.Put(key, []byte(p.ID.String())); err != nil {
			return oops.Code("BOLT_WRITE_FAILED").Wrap(err)
		}
		if err := tx.Bucket(bucketPlayers).Put([]byte(p.ID.String()), payload); err != nil {
			return oops.Code("BOLT_WRITE_FAILED").Wrap(err)
		}
		return nil
	})
}

// UpdatePlayer replaces a stored player. The username is immutable.
func (r *Repository) UpdatePlayer(ctx context.Context, p *world.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(playerRecordOf(p))
	if err != nil {
		return oops.With("player_id", p.ID.String()).Wrap(err)
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		players := tx.Bucket(bucketPlayers)
		key := []byte(p.ID.String())
		if players.Get(key) == nil {
			return oops.Code(world.CodeNotFound).With("player_id", p.ID.String()).Wrap(world.ErrNotFound)
		}
		return players.Put(key, payload)
	})
}

// GetPlayerByUsername looks a player up case-insensitively.
func (r *Repository) GetPlayerByUsername(ctx context.Context, username string) (*world.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		rec   playerRecord
		found bool
	)
	err := r.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsernames).Get(usernameKey(username))
		if id == nil {
			return nil
		}
		v := tx.Bucket(bucketPlayers).Get(id)
		if v == nil {
			return oops.Code(world.CodeInvariant).With("player_id", string(id)).Errorf("username index names a missing player")
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, oops.With("username", username).Wrap(err)
	}
	if !found {
		return nil, oops.Code(world.CodeNotFound).With("username", username).Wrap(world.ErrNotFound)
	}
	return rec.player(), nil
}

func (r *Repository) put(bucket, key []byte, v any, idField string) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return oops.With(idField, string(key)).Wrap(err)
	}
	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(key, payload)
	})
	if err != nil {
		return oops.Code("BOLT_WRITE_FAILED").With(idField, string(key)).Wrap(err)
	}
	return nil
}

func (r *Repository) get(bucket, key []byte, v any) (bool, error) {
	var found bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket(bucket).Get(key)
		if payload == nil {
			return nil
		}
		found = true
		return json.Unmarshal(payload, v)
	})
	if err != nil {
		return false, oops.Code("BOLT_READ_FAILED").Wrap(err)
	}
	return found, nil
}

func usernameKey(username string) []byte {
	return []byte(strings.ToLower(username))
}

func (rec *roomRecord) room() *world.Room {
	room := &world.Room{
		ID:               world.RoomID(rec.ID),
		Name:             rec.Name,
		ShortDescription: rec.ShortDescription,
		LongDescription:  rec.LongDescription,
		EnterText:        rec.EnterText,
		ExitText:         rec.ExitText,
		CreatorUsername:  rec.CreatorUsername,
		Exits:            make(map[string]world.RoomID, len(rec.Exits)),
		CreatedAt:        rec.CreatedAt,
	}
	for label, target := range rec.Exits {
		room.Exits[label] = world.RoomID(target)
	}
	return room
}

func (rec *objectRecord) object() *world.Object {
	obj := &world.Object{
		ID:              world.ObjectID(rec.ID),
		Name:            rec.Name,
		Description:     rec.Description,
		TextContent:     rec.TextContent,
		Flags:           world.Flags(rec.Flags),
		OwnerID:         rec.OwnerID,
		CreatorUsername: rec.CreatorUsername,
		Verbs:           rec.Verbs,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.KeyID != nil {
		k := world.ObjectID(*rec.KeyID)
		obj.KeyID = &k
	}
	if rec.LocationID != nil {
		l := world.RoomID(*rec.LocationID)
		obj.LocationID = &l
	}
	return obj
}

func playerRecordOf(p *world.Player) playerRecord {
	return playerRecord{
		ID:           p.ID,
		Username:     p.Username,
		Description:  p.Description,
		PasswordHash: p.PasswordHash,
		LastRoomID:   p.LastRoomID.String(),
		LastActionAt: p.LastActionAt,
		CreatedAt:    p.CreatedAt,
	}
}

func (rec *playerRecord) player() *world.Player {
	return &world.Player{
		ID:           rec.ID,
		Username:     rec.Username,
		Description:  rec.Description,
		PasswordHash: rec.PasswordHash,
		LastRoomID:   world.RoomID(rec.LastRoomID),
		LastActionAt: rec.LastActionAt,
		CreatedAt:    rec.CreatedAt,
	}
}
