// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"context"
	"time"

	"github.com/lanternmush/lantern/internal/script"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

// Persister issues world writes to storage.
type Persister interface {
	SaveRoom(ctx context.Context, room *world.Room, mode store.Mode) error
	SaveObject(ctx context.Context, obj *world.Object, mode store.Mode) error
	DeleteObject(ctx context.Context, id world.ObjectID, mode store.Mode) error
	SavePlayer(ctx context.Context, p *world.Player, mode store.Mode) error
}

// Sessions lets handlers act on the actor's session.
type Sessions interface {
	// Logout ends the player's session once the current result is delivered.
	Logout(player world.PlayerID)
}

// Spawner schedules objects to appear in a room later.
type Spawner interface {
	SpawnLater(delay time.Duration, room world.RoomID, obj *world.Object)
}

// Env is what a handler may touch while it runs. It is only valid for the
// duration of one Handle call; handlers must not keep references to it.
type Env struct {
	World    *world.World
	Actor    *world.Player
	Store    Persister
	Scripts  script.Runner
	Sessions Sessions
	Spawner  Spawner
	Registry *Registry
	Now      func() time.Time
}

// Room returns the actor's current room.
func (e *Env) Room() (*world.Room, error) {
	room, ok := e.World.PlayerRoom(e.Actor.ID)
	if !ok {
		return nil, WorldError("You are nowhere.", world.ErrNotFound)
	}
	return room, nil
}

// Clock returns the current time.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
