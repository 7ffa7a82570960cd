// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package testutil

import (
	"context"
	"time"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

// Write is one recorded persistence call.
type Write struct {
	Kind string // "room", "object", "delete", "player"
	ID   string
	Mode store.Mode
}

// Spawn is one recorded SpawnLater call.
type Spawn struct {
	Delay  time.Duration
	Room   world.RoomID
	Object *world.Object
}

// Recorder captures what handlers ask of the store, the session layer and
// the spawner. Err, when set, is returned by every write.
type Recorder struct {
	Writes  []Write
	Logouts []world.PlayerID
	Spawns  []Spawn
	Err     error
}

var (
	_ command.Persister = (*Recorder)(nil)
	_ command.Sessions  = (*Recorder)(nil)
	_ command.Spawner   = (*Recorder)(nil)
)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SaveRoom implements command.Persister.
func (r *Recorder) SaveRoom(_ context.Context, room *world.Room, mode store.Mode) error {
	r.Writes = append(r.Writes, Write{Kind: "room", ID: room.ID.String(), Mode: mode})
	return r.Err
}

// SaveObject implements command.Persister.
func (r *Recorder) SaveObject(_ context.Context, obj *world.Object, mode store.Mode) error {
	r.Writes = append(r.Writes, Write{Kind: "object", ID: obj.ID.String(), Mode: mode})
	return r.Err
}

// DeleteObject implements command.Persister.
func (r *Recorder) DeleteObject(_ context.Context, id world.ObjectID, mode store.Mode) error {
	r.Writes = append(r.Writes, Write{Kind: "delete", ID: id.String(), Mode: mode})
	return r.Err
}

// SavePlayer implements command.Persister.
func (r *Recorder) SavePlayer(_ context.Context, p *world.Player, mode store.Mode) error {
	r.Writes = append(r.Writes, Write{Kind: "player", ID: p.ID.String(), Mode: mode})
	return r.Err
}

// Logout implements command.Sessions.
func (r *Recorder) Logout(player world.PlayerID) {
	r.Logouts = append(r.Logouts, player)
}

// SpawnLater implements command.Spawner.
func (r *Recorder) SpawnLater(delay time.Duration, room world.RoomID, obj *world.Object) {
	r.Spawns = append(r.Spawns, Spawn{Delay: delay, Room: room, Object: obj})
}
