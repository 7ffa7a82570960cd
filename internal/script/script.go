// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package script defines the contract between command handlers and the
// scripted-verb interpreter.
package script

import (
	"context"
	"time"
)

// Entity is the view of a world entity handed to a script.
type Entity struct {
	ID          string
	Name        string
	Description string
}

// Invocation is one call of a scripted verb.
type Invocation struct {
	Code   string
	Target Entity
	Actor  Entity
	Room   Entity
	Verb   string
	Args   string
}

// Spawn asks for an object to appear in the invocation's room after Delay.
type Spawn struct {
	Delay       time.Duration
	Name        string
	Description string
}

// Outcome is what a script produced.
type Outcome struct {
	Success bool
	// Messages go to the actor, RoomMessages to everyone else in the room.
	Messages     []string
	RoomMessages []string
	// Commands run as the actor after the current command.
	Commands []string
	Spawns   []Spawn
}

// Runner executes scripted verbs.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Outcome, error)
}
