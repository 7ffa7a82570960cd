// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package command turns player input into structured commands and routes
// each command to its single handler.
//
// The pipeline is Parser (verb lookup in a Registry of Definitions) then
// Binder (name resolution against the actor's surroundings) then Executor
// (type-keyed handler dispatch).
package command

import (
	"github.com/lanternmush/lantern/internal/world"
)

// Command is a parsed command with every reference bound to a world entity.
type Command interface {
	// Name is the canonical verb, used for metrics and tracing.
	Name() string
}

// Look shows the room, or an object or player when one is bound.
type Look struct {
	Object *world.Object
	Player *world.Player
}

// Move walks through an exit of the actor's room.
type Move struct {
	Exit string
}

// Take picks an object up from the room.
type Take struct {
	Object *world.Object
}

// Drop puts a carried object down.
type Drop struct {
	Object *world.Object
}

// Give hands a carried object to another player in the room.
type Give struct {
	Object    *world.Object
	Recipient *world.Player
}

// Inventory lists carried objects.
type Inventory struct{}

// Say speaks to the room.
type Say struct {
	Text string
}

// Emote performs a free-form action.
type Emote struct {
	Text string
}

// Who lists connected players.
type Who struct{}

// Help lists available verbs.
type Help struct{}

// Quit ends the actor's session.
type Quit struct{}

// Dig creates a room and a pair of exits to it.
type Dig struct {
	Exit     string
	Return   string
	RoomName string
}

// Rename renames the actor's room (Object nil) or an object.
type Rename struct {
	Object  *world.Object
	NewName string
}

// Describe sets the description of the actor's room (Object nil), an
// object, or the actor (Self).
type Describe struct {
	Object *world.Object
	Self   bool
	Text   string
}

// Recycle destroys an object.
type Recycle struct {
	Object *world.Object
}

// Create makes a new object in the actor's inventory.
type Create struct {
	ObjectName  string
	Description string
}

// Write sets the text of a writeable object.
type Write struct {
	Object *world.Object
	Text   string
}

// Read shows the text of an object.
type Read struct {
	Object *world.Object
}

// Action is what Operate does to an object.
type Action string

// Operate actions.
const (
	ActionOpen   Action = "open"
	ActionClose  Action = "close"
	ActionLock   Action = "lock"
	ActionUnlock Action = "unlock"
)

// Operate opens, closes, locks or unlocks an object.
type Operate struct {
	Object *world.Object
	Action Action
}

// Find searches room and object names with a glob pattern.
type Find struct {
	Pattern string
}

// InvokeVerb runs a scripted verb defined on an object.
type InvokeVerb struct {
	Object *world.Object
	Verb   string
	Args   string
}

// Name implements Command.
func (Look) Name() string { return "look" }

// Name implements Command.
func (Move) Name() string { return "move" }

// Name implements Command.
func (Take) Name() string { return "take" }

// Name implements Command.
func (Drop) Name() string { return "drop" }

// Name implements Command.
func (Give) Name() string { return "give" }

// Name implements Command.
func (Inventory) Name() string { return "inventory" }

// Name implements Command.
func (Say) Name() string { return "say" }

// Name implements Command.
func (Emote) Name() string { return "emote" }

// Name implements Command.
func (Who) Name() string { return "who" }

// Name implements Command.
func (Help) Name() string { return "help" }

// Name implements Command.
func (Quit) Name() string { return "quit" }

// Name implements Command.
func (Dig) Name() string { return "dig" }

// Name implements Command.
func (Rename) Name() string { return "rename" }

// Name implements Command.
func (Describe) Name() string { return "describe" }

// Name implements Command.
func (Recycle) Name() string { return "recycle" }

// Name implements Command.
func (Create) Name() string { return "create" }

// Name implements Command.
func (Write) Name() string { return "write" }

// Name implements Command.
func (Read) Name() string { return "read" }

// Name implements Command.
func (c Operate) Name() string { return string(c.Action) }

// Name implements Command.
func (Find) Name() string { return "find" }

// Name implements Command.
func (InvokeVerb) Name() string { return "script" }

// AllTypes returns a zero value of every command type. The executor must
// hold exactly one handler for each.
func AllTypes() []Command {
	return []Command{
		Look{}, Move{}, Take{}, Drop{}, Give{}, Inventory{}, Say{}, Emote{},
		Who{}, Help{}, Quit{}, Dig{}, Rename{}, Describe{}, Recycle{},
		Create{}, Write{}, Read{}, Operate{}, Find{}, InvokeVerb{},
	}
}
