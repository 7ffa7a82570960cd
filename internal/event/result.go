// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package event

import (
	"slices"

	"github.com/lanternmush/lantern/internal/world"
)

// Message is an event addressed to one player with the audience it should be
// rendered for.
type Message struct {
	Recipient world.PlayerID
	Event     Event
	Audience  Audience
}

// FollowUp is a command to run as Actor after the current one, before the
// loop takes the next queued item.
type FollowUp struct {
	Actor world.PlayerID
	Input string
}

// Result accumulates the messages and follow-up commands produced by one
// command. The zero value is ready to use.
type Result struct {
	messages  []Message
	followUps []FollowUp
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{}
}

// Reply is shorthand for a result holding one actor message.
func Reply(player world.PlayerID, ev Event) *Result {
	return NewResult().Add(player, ev)
}

// Add appends an actor-audience message for player.
func (r *Result) Add(player world.PlayerID, ev Event) *Result {
	r.messages = append(r.messages, Message{Recipient: player, Event: ev, Audience: Actor})
	return r
}

// Broadcast appends a message for each player except the excluded ones.
func (r *Result) Broadcast(players []world.PlayerID, ev Event, audience Audience, excluded ...world.PlayerID) *Result {
	for _, p := range players {
		if slices.Contains(excluded, p) {
			continue
		}
		r.messages = append(r.messages, Message{Recipient: p, Event: ev, Audience: audience})
	}
	return r
}

// Follow queues input to run as actor once the current command completes.
func (r *Result) Follow(actor world.PlayerID, input string) *Result {
	r.followUps = append(r.followUps, FollowUp{Actor: actor, Input: input})
	return r
}

// Merge appends other's messages and follow-ups to r.
func (r *Result) Merge(other *Result) *Result {
	if other == nil {
		return r
	}
	r.messages = append(r.messages, other.messages...)
	r.followUps = append(r.followUps, other.followUps...)
	return r
}

// Messages returns the accumulated messages in order.
func (r *Result) Messages() []Message {
	if r == nil {
		return nil
	}
	return slices.Clone(r.messages)
}

// FollowUps returns the queued follow-up commands in order.
func (r *Result) FollowUps() []FollowUp {
	if r == nil {
		return nil
	}
	return slices.Clone(r.followUps)
}

// Len returns the number of messages.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.messages)
}
