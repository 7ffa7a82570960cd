// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package world contains the world model: rooms, exits, objects and players,
// plus the World aggregate that owns containment and location indices.
//
// A World has no locking of its own. It must only be mutated by the goroutine
// that owns it (the game loop); other readers take a Snapshot.
//
// For creating domain objects prefer the constructor functions (NewRoom,
// NewObject, NewPlayer) over direct struct initialization.
package world

import (
	"maps"
	"slices"
	"time"

	"github.com/samber/oops"
)

// RoomID is the stable slug identifying a room. It never changes after creation.
type RoomID string

// String returns the slug.
func (id RoomID) String() string {
	return string(id)
}

// Room is a place in the world connected to other rooms by labelled exits.
type Room struct {
	ID               RoomID
	Name             string
	ShortDescription string
	LongDescription  string
	// EnterText and ExitText narrate arrivals and departures to observers.
	// Empty values fall back to the default narration.
	EnterText       string
	ExitText        string
	CreatorUsername *string
	Exits           map[string]RoomID
	CreatedAt       time.Time

	contents  []ObjectID
	occupants []PlayerID
}

// NewRoom creates a room whose ID is the slug of its name.
func NewRoom(name, shortDesc string) (*Room, error) {
	return NewRoomWithID(RoomID(Slugify(name)), name, shortDesc)
}

// NewRoomWithID creates a room with an explicit slug.
func NewRoomWithID(id RoomID, name, shortDesc string) (*Room, error) {
	r := &Room{
		ID:               id,
		Name:             name,
		ShortDescription: shortDesc,
		Exits:            make(map[string]RoomID),
		CreatedAt:        time.Now(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the room's identity and text fields.
func (r *Room) Validate() error {
	if r.ID == "" || RoomID(Slugify(string(r.ID))) != r.ID {
		return oops.With("room_id", string(r.ID)).Wrap(&ValidationError{Field: "id", Message: "must be a non-empty slug"})
	}
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if err := ValidateDescription(r.ShortDescription); err != nil {
		return err
	}
	if err := ValidateDescription(r.LongDescription); err != nil {
		return err
	}
	for label := range r.Exits {
		if err := ValidateExitLabel(label); err != nil {
			return err
		}
	}
	return nil
}

// Description returns the long description, or the short one when no long one is set.
func (r *Room) Description() string {
	if r.LongDescription != "" {
		return r.LongDescription
	}
	return r.ShortDescription
}

// ExitLabels returns the room's exit labels in sorted order.
func (r *Room) ExitLabels() []string {
	return slices.Sorted(maps.Keys(r.Exits))
}

// Exit returns the target of the exit with the given label.
func (r *Room) Exit(label string) (RoomID, bool) {
	target, ok := r.Exits[NormalizeExitLabel(label)]
	return target, ok
}

// Contents returns the IDs of objects lying in the room, in arrival order.
func (r *Room) Contents() []ObjectID {
	return slices.Clone(r.contents)
}

// Occupants returns the IDs of players in the room, in arrival order.
func (r *Room) Occupants() []PlayerID {
	return slices.Clone(r.occupants)
}

// Clone returns a deep copy of the room including its live indices.
func (r *Room) Clone() *Room {
	c := *r
	c.Exits = maps.Clone(r.Exits)
	if c.Exits == nil {
		c.Exits = make(map[string]RoomID)
	}
	c.CreatorUsername = cloneString(r.CreatorUsername)
	c.contents = slices.Clone(r.contents)
	c.occupants = slices.Clone(r.occupants)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
