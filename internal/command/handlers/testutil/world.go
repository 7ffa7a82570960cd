// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package testutil builds worlds and command environments for handler tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/world"
)

// Now is the fixed clock used by environments built here.
var Now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// WorldBuilder assembles a small world step by step.
type WorldBuilder struct {
	t     *testing.T
	World *world.World
}

// NewWorld starts a world holding the rooms "origin" and "destination"
// joined by north/south exits.
func NewWorld(t *testing.T) *WorldBuilder {
	t.Helper()
	b := &WorldBuilder{t: t, World: world.New()}
	b.Room("origin", "Origin")
	b.Room("destination", "Destination")
	require.NoError(t, b.World.SetExit("origin", "north", "destination"))
	require.NoError(t, b.World.SetExit("destination", "south", "origin"))
	return b
}

// Room adds a room.
func (b *WorldBuilder) Room(id, name string) *world.Room {
	b.t.Helper()
	r, err := world.NewRoomWithID(world.RoomID(id), name, "You are in "+name+".")
	require.NoError(b.t, err)
	require.NoError(b.t, b.World.AddRoom(r))
	return r
}

// Player adds a player to a room.
func (b *WorldBuilder) Player(username string, room world.RoomID) *world.Player {
	b.t.Helper()
	p, err := world.NewPlayer(username, "hash")
	require.NoError(b.t, err)
	require.NoError(b.t, b.World.AddPlayer(p, room, nil))
	return p
}

// ObjectIn adds an object lying in a room.
func (b *WorldBuilder) ObjectIn(id, name string, room world.RoomID) *world.Object {
	b.t.Helper()
	o, err := world.NewObjectWithID(world.ObjectID(id), name, "It is a "+name+".")
	require.NoError(b.t, err)
	o.LocationID = &room
	require.NoError(b.t, b.World.AddObject(o))
	return o
}

// ObjectHeld adds an object carried by a player.
func (b *WorldBuilder) ObjectHeld(id, name string, holder *world.Player) *world.Object {
	b.t.Helper()
	o, err := world.NewObjectWithID(world.ObjectID(id), name, "It is a "+name+".")
	require.NoError(b.t, err)
	o.OwnerID = &holder.ID
	require.NoError(b.t, b.World.AddObject(o))
	return o
}

// Env returns an environment for actor with a recording store and session.
func (b *WorldBuilder) Env(actor *world.Player) (*command.Env, *Recorder) {
	rec := NewRecorder()
	return &command.Env{
		World:    b.World,
		Actor:    actor,
		Store:    rec,
		Sessions: rec,
		Spawner:  rec,
		Now:      func() time.Time { return Now },
	}, rec
}
