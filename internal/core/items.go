// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lanternmush/lantern/internal/world"
)

// Item is something for the game loop to process. The set of items is
// closed; each has its own handler in the loop.
type Item interface {
	itemKind() string
}

// Input is a line typed by a logged-in connection.
type Input struct {
	ConnID ulid.ULID
	Text   string
}

// Login places an authenticated player in the world, or rebinds their
// session if they are still live.
type Login struct {
	ConnID    ulid.ULID
	Player    *world.Player
	Inventory []*world.Object
	// Registered is set when the player was created just now.
	Registered bool
}

// Resume reattaches a connection to the session named by Token.
type Resume struct {
	ConnID ulid.ULID
	Token  string
}

// Disconnect reports that a connection closed.
type Disconnect struct {
	ConnID ulid.ULID
}

// SessionExpired is enqueued by a grace timer.
type SessionExpired struct {
	Token      string
	Generation uint64
}

// Tick advances the world clock.
type Tick struct {
	At time.Time
}

// Spawn places a scheduled object in a room.
type Spawn struct {
	RoomID world.RoomID
	Object *world.Object
}

// Query runs Fn on the loop with read access to the world. Fn must not keep
// references to anything it is handed.
type Query struct {
	Fn func(w *world.World)
}

func (Input) itemKind() string          { return "input" }
func (Login) itemKind() string          { return "login" }
func (Resume) itemKind() string         { return "resume" }
func (Disconnect) itemKind() string     { return "disconnect" }
func (SessionExpired) itemKind() string { return "session_expired" }
func (Tick) itemKind() string           { return "tick" }
func (Spawn) itemKind() string          { return "spawn" }
func (Query) itemKind() string          { return "query" }
