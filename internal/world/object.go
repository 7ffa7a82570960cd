// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"maps"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ObjectID identifies an object. Seeded objects use slugs, created objects ULIDs.
type ObjectID string

// NewObjectID returns a fresh ULID-based object ID.
func NewObjectID() ObjectID {
	return ObjectID(ulid.Make().String())
}

// String returns the raw ID.
func (id ObjectID) String() string {
	return string(id)
}

// ContainmentType names the kind of container holding an object.
type ContainmentType string

// Containment types.
const (
	ContainmentRoom   ContainmentType = "room"
	ContainmentPlayer ContainmentType = "player"
	ContainmentNone   ContainmentType = "none"
)

// Containment represents where an object is. At most one field may be set;
// none set means the object is nowhere (destroyed or not yet placed).
type Containment struct {
	RoomID   *RoomID
	PlayerID *PlayerID
}

// InRoom returns a containment for the given room.
func InRoom(id RoomID) Containment {
	return Containment{RoomID: &id}
}

// HeldBy returns a containment for the given player.
func HeldBy(id PlayerID) Containment {
	return Containment{PlayerID: &id}
}

// Validate ensures no more than one containment field is set.
func (c Containment) Validate() error {
	if c.RoomID != nil && c.PlayerID != nil {
		return oops.
			With("room_id", string(*c.RoomID)).
			With("player_id", c.PlayerID.String()).
			Wrap(ErrInvalidContainment)
	}
	return nil
}

// Type returns the containment type.
func (c Containment) Type() ContainmentType {
	switch {
	case c.RoomID != nil:
		return ContainmentRoom
	case c.PlayerID != nil:
		return ContainmentPlayer
	default:
		return ContainmentNone
	}
}

// Object is an item in the game world.
type Object struct {
	ID          ObjectID
	Name        string
	Description string
	// TextContent is the writeable text of notes, signs and books.
	TextContent *string
	Flags       Flags
	// KeyID names the object that locks and unlocks this one.
	KeyID           *ObjectID
	OwnerID         *PlayerID
	LocationID      *RoomID
	CreatorUsername *string
	// Verbs maps scripted verb names to Lua source.
	Verbs     map[string]string
	CreatedAt time.Time
}

// NewObject creates an unplaced, portable object with a fresh ID.
func NewObject(name, description string) (*Object, error) {
	return NewObjectWithID(NewObjectID(), name, description)
}

// NewObjectWithID creates an unplaced object with an explicit ID.
func NewObjectWithID(id ObjectID, name, description string) (*Object, error) {
	o := &Object{
		ID:          id,
		Name:        name,
		Description: description,
		Flags:       FlagPortable,
		CreatedAt:   time.Now(),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate validates the object's fields and containment.
func (o *Object) Validate() error {
	if o.ID == "" {
		return &ValidationError{Field: "id", Message: "cannot be empty"}
	}
	if err := ValidateName(o.Name); err != nil {
		return err
	}
	if err := ValidateDescription(o.Description); err != nil {
		return err
	}
	if o.TextContent != nil {
		if err := ValidateText(*o.TextContent); err != nil {
			return err
		}
	}
	return o.Containment().Validate()
}

// Containment returns where the object currently is.
func (o *Object) Containment() Containment {
	return Containment{RoomID: o.LocationID, PlayerID: o.OwnerID}
}

// setContainment replaces the object's containment. Callers keep the
// container indices in step.
func (o *Object) setContainment(c Containment) {
	o.LocationID = c.RoomID
	o.OwnerID = c.PlayerID
}

// MatchesName reports whether input names this object: either its full name
// or any single word of it, case-insensitively.
func (o *Object) MatchesName(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if strings.EqualFold(o.Name, input) {
		return true
	}
	for _, word := range strings.Fields(o.Name) {
		if strings.EqualFold(word, input) {
			return true
		}
	}
	return false
}

// Verb returns the script attached to the named verb.
func (o *Object) Verb(name string) (string, bool) {
	code, ok := o.Verbs[strings.ToLower(name)]
	return code, ok
}

// IsPortable reports whether the object can be picked up.
func (o *Object) IsPortable() bool {
	return o.Flags.Has(FlagPortable) && !o.Flags.Has(FlagScenery)
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	c.TextContent = cloneString(o.TextContent)
	c.CreatorUsername = cloneString(o.CreatorUsername)
	if o.KeyID != nil {
		k := *o.KeyID
		c.KeyID = &k
	}
	if o.OwnerID != nil {
		p := *o.OwnerID
		c.OwnerID = &p
	}
	if o.LocationID != nil {
		r := *o.LocationID
		c.LocationID = &r
	}
	c.Verbs = maps.Clone(o.Verbs)
	return &c
}
