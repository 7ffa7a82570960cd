// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// PlayerID identifies a player. Players get a ULID at registration.
type PlayerID = ulid.ULID

// Player is a registered user's presence in the world.
//
// The player's current room is not a field: the World keeps a side index so a
// move is one index write plus two set mutations. LastRoomID is the persisted
// copy of that index, refreshed on every snapshot.
type Player struct {
	ID           PlayerID
	Username     string
	Description  string
	PasswordHash string
	// ConnectionID is the transport handle currently bound to the player.
	ConnectionID ulid.ULID
	LastActionAt time.Time
	LastRoomID   RoomID
	CreatedAt    time.Time

	inventory []ObjectID
}

// NewPlayer creates a player with a fresh ID.
func NewPlayer(username, passwordHash string) (*Player, error) {
	return NewPlayerWithID(ulid.Make(), username, passwordHash)
}

// NewPlayerWithID creates a player with an explicit ID.
func NewPlayerWithID(id PlayerID, username, passwordHash string) (*Player, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Player{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		LastActionAt: now,
		CreatedAt:    now,
	}, nil
}

// Name is the display name of the player.
func (p *Player) Name() string {
	return p.Username
}

// MatchesName reports whether input names this player (case-insensitive).
func (p *Player) MatchesName(input string) bool {
	return strings.EqualFold(p.Username, strings.TrimSpace(input))
}

// Inventory returns the IDs of objects the player carries, in pickup order.
func (p *Player) Inventory() []ObjectID {
	return slices.Clone(p.inventory)
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	c := *p
	c.inventory = slices.Clone(p.inventory)
	return &c
}
