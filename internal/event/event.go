// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package event defines game events, their per-audience formatters and the
// Result accumulator handlers return.
//
// Events are immutable facts. Rendering to text happens at dispatch time so a
// single event can read differently for the actor and for bystanders.
package event

// Kind identifies the kind of event. Each kind has exactly one Formatter.
type Kind string

// Event is an immutable fact produced by a command handler.
type Event interface {
	Kind() Kind
}

// Audience selects which rendering of an event a recipient gets.
type Audience uint8

const (
	// Actor is the player who issued the command.
	Actor Audience = iota
	// Observer is a bystander.
	Observer
)

func (a Audience) String() string {
	switch a {
	case Actor:
		return "actor"
	case Observer:
		return "observer"
	default:
		return "unknown"
	}
}
