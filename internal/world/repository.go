// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import "context"

// RoomRepository manages room persistence.
type RoomRepository interface {
	// UpsertRoom inserts or replaces a room by ID, exits included.
	UpsertRoom(ctx context.Context, room *Room) error

	// GetRoom retrieves a room by ID.
	GetRoom(ctx context.Context, id RoomID) (*Room, error)

	// ListRooms returns every room.
	ListRooms(ctx context.Context) ([]*Room, error)

	// CountRooms reports how many rooms are stored.
	CountRooms(ctx context.Context) (int, error)
}

// ObjectRepository manages object persistence.
type ObjectRepository interface {
	// UpsertObject inserts or replaces an object by ID.
	UpsertObject(ctx context.Context, obj *Object) error

	// DeleteObject removes an object. Deleting a missing object is not an error.
	DeleteObject(ctx context.Context, id ObjectID) error

	// ListRoomObjects returns every object lying in a room, whatever the room.
	ListRoomObjects(ctx context.Context) ([]*Object, error)

	// ListInventory returns the objects owned by a player.
	ListInventory(ctx context.Context, owner PlayerID) ([]*Object, error)
}

// PlayerRepository manages player persistence.
type PlayerRepository interface {
	// CreatePlayer inserts a new player. Returns ErrUsernameTaken on a
	// case-insensitive username clash.
	CreatePlayer(ctx context.Context, p *Player) error

	// UpdatePlayer replaces an existing player.
	UpdatePlayer(ctx context.Context, p *Player) error

	// GetPlayerByUsername looks a player up case-insensitively.
	GetPlayerByUsername(ctx context.Context, username string) (*Player, error)
}

// Repository is the full persistence surface used by the server.
type Repository interface {
	RoomRepository
	ObjectRepository
	PlayerRepository
}

// Load builds a World from the rooms and room objects in a repository.
// Players and their inventories are loaded on login, not here.
func Load(ctx context.Context, repo Repository) (*World, error) {
	rooms, err := repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	w := New()
	for _, r := range rooms {
		if err := w.AddRoom(r); err != nil {
			return nil, err
		}
	}
	objects, err := repo.ListRoomObjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range objects {
		if err := w.AddObject(o); err != nil {
			return nil, err
		}
	}
	return w, nil
}
