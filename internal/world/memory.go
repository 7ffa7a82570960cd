// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// MemoryRepository is an in-process Repository. It stores copies, so callers
// may keep mutating what they saved.
type MemoryRepository struct {
	mu      sync.RWMutex
	rooms   map[RoomID]*Room
	objects map[ObjectID]*Object
	players map[PlayerID]*Player
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms:   make(map[RoomID]*Room),
		objects: make(map[ObjectID]*Object),
		players: make(map[PlayerID]*Player),
	}
}

// UpsertRoom stores a copy of the room.
func (m *MemoryRepository) UpsertRoom(_ context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := room.Clone()
	c.contents, c.occupants = nil, nil
	m.rooms[room.ID] = c
	return nil
}

// GetRoom returns a copy of the stored room.
func (m *MemoryRepository) GetRoom(_ context.Context, id RoomID) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, roomNotFound(id)
	}
	return r.Clone(), nil
}

// ListRooms returns copies of all rooms ordered by ID.
func (m *MemoryRepository) ListRooms(_ context.Context) ([]*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountRooms returns the number of stored rooms.
func (m *MemoryRepository) CountRooms(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms), nil
}

// UpsertObject stores a copy of the object.
func (m *MemoryRepository) UpsertObject(_ context.Context, obj *Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.ID] = obj.Clone()
	return nil
}

// DeleteObject removes the object if present.
func (m *MemoryRepository) DeleteObject(_ context.Context, id ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, id)
	return nil
}

// ListRoomObjects returns copies of every object lying in a room.
func (m *MemoryRepository) ListRoomObjects(_ context.Context) ([]*Object, error) {
	return m.listObjects(func(o *Object) bool { return o.LocationID != nil }), nil
}

// ListInventory returns copies of the objects owned by a player.
func (m *MemoryRepository) ListInventory(_ context.Context, owner PlayerID) ([]*Object, error) {
	return m.listObjects(func(o *Object) bool { return o.OwnerID != nil && *o.OwnerID == owner }), nil
}

func (m *MemoryRepository) listObjects(keep func(*Object) bool) []*Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Object, 0)
	for _, o := range m.objects {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CreatePlayer stores a new player.
func (m *MemoryRepository) CreatePlayer(_ context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.players {
		if strings.EqualFold(existing.Username, p.Username) {
			return oops.With("username", p.Username).Wrap(ErrUsernameTaken)
		}
	}
	m.players[p.ID] = p.Clone()
	return nil
}

// UpdatePlayer replaces a stored player.
func (m *MemoryRepository) UpdatePlayer(_ context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.ID]; !ok {
		return playerNotFound(p.ID.String())
	}
	m.players[p.ID] = p.Clone()
	return nil
}

// GetPlayerByUsername returns a copy of the player with the given username.
func (m *MemoryRepository) GetPlayerByUsername(_ context.Context, username string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if strings.EqualFold(p.Username, username) {
			return p.Clone(), nil
		}
	}
	return nil, playerNotFound(username)
}
