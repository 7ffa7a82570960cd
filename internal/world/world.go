// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/samber/oops"
)

// World is the aggregate of every live room, object and player. It is the
// authority for containment: an object's LocationID/OwnerID fields and the
// room/player content lists are only changed together, here.
//
// World is not safe for concurrent use.
type World struct {
	rooms      map[RoomID]*Room
	objects    map[ObjectID]*Object
	players    map[PlayerID]*Player
	usernames  map[string]PlayerID
	playerRoom map[PlayerID]RoomID
}

// New returns an empty world.
func New() *World {
	return &World{
		rooms:      make(map[RoomID]*Room),
		objects:    make(map[ObjectID]*Object),
		players:    make(map[PlayerID]*Player),
		usernames:  make(map[string]PlayerID),
		playerRoom: make(map[PlayerID]RoomID),
	}
}

// Room returns the room with the given ID.
func (w *World) Room(id RoomID) (*Room, bool) {
	r, ok := w.rooms[id]
	return r, ok
}

// Rooms returns all rooms ordered by ID.
func (w *World) Rooms() []*Room {
	out := make([]*Room, 0, len(w.rooms))
	for _, r := range w.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RoomCount returns the number of rooms.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// AddRoom inserts a room. Its exits may name rooms not yet added; traversal
// checks targets at move time.
func (w *World) AddRoom(r *Room) error {
	if _, exists := w.rooms[r.ID]; exists {
		return oops.Code(CodeRoomExists).With("room_id", string(r.ID)).Wrap(ErrRoomExists)
	}
	if r.Exits == nil {
		r.Exits = make(map[string]RoomID)
	}
	r.contents = nil
	r.occupants = nil
	w.rooms[r.ID] = r
	return nil
}

// Object returns the object with the given ID.
func (w *World) Object(id ObjectID) (*Object, bool) {
	o, ok := w.objects[id]
	return o, ok
}

// Objects returns all live objects ordered by ID.
func (w *World) Objects() []*Object {
	out := make([]*Object, 0, len(w.objects))
	for _, o := range w.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddObject inserts an object and places it according to its containment.
func (w *World) AddObject(o *Object) error {
	if _, exists := w.objects[o.ID]; exists {
		return oops.Code(CodeInvalidMove).With("object_id", string(o.ID)).Errorf("object already exists")
	}
	c := o.Containment()
	if err := c.Validate(); err != nil {
		return err
	}
	if err := w.checkContainer(c); err != nil {
		return err
	}
	o.setContainment(Containment{})
	w.objects[o.ID] = o
	w.attach(o, c)
	return nil
}

// Player returns the live player with the given ID.
func (w *World) Player(id PlayerID) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// PlayerByName returns the live player with the given username (case-insensitive).
func (w *World) PlayerByName(username string) (*Player, bool) {
	id, ok := w.usernames[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	return w.players[id], true
}

// Players returns all live players ordered by username.
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out
}

// AddPlayer places a player in a room together with the objects they carry.
// Inventory objects must have OwnerID set to the player.
func (w *World) AddPlayer(p *Player, roomID RoomID, inventory []*Object) error {
	if _, exists := w.players[p.ID]; exists {
		return oops.With("player_id", p.ID.String()).Wrap(ErrPlayerExists)
	}
	if _, taken := w.usernames[strings.ToLower(p.Username)]; taken {
		return oops.With("username", p.Username).Wrap(ErrPlayerExists)
	}
	room, ok := w.rooms[roomID]
	if !ok {
		return roomNotFound(roomID)
	}
	for _, o := range inventory {
		if o.OwnerID == nil || *o.OwnerID != p.ID || o.LocationID != nil {
			return oops.Code(CodeInvalidMove).
				With("object_id", string(o.ID)).
				With("player_id", p.ID.String()).
				Wrap(ErrInvalidContainment)
		}
		if _, exists := w.objects[o.ID]; exists {
			return oops.Code(CodeInvalidMove).With("object_id", string(o.ID)).Errorf("object already exists")
		}
	}
	p.inventory = nil
	w.players[p.ID] = p
	w.usernames[strings.ToLower(p.Username)] = p.ID
	w.playerRoom[p.ID] = roomID
	room.occupants = append(room.occupants, p.ID)
	p.LastRoomID = roomID
	for _, o := range inventory {
		o.setContainment(Containment{})
		w.objects[o.ID] = o
		w.attach(o, HeldBy(p.ID))
	}
	return nil
}

// RemovePlayer detaches a player and their inventory from the live world.
// The returned objects keep OwnerID so they can be persisted with the player.
func (w *World) RemovePlayer(id PlayerID) (*Player, []*Object, error) {
	p, ok := w.players[id]
	if !ok {
		return nil, nil, playerNotFound(id.String())
	}
	if roomID, ok := w.playerRoom[id]; ok {
		if room, ok := w.rooms[roomID]; ok {
			room.occupants = removeID(room.occupants, id)
		}
		p.LastRoomID = roomID
	}
	inventory := make([]*Object, 0, len(p.inventory))
	for _, objID := range p.inventory {
		if o, ok := w.objects[objID]; ok {
			inventory = append(inventory, o)
			delete(w.objects, objID)
		}
	}
	p.inventory = nil
	delete(w.players, id)
	delete(w.usernames, strings.ToLower(p.Username))
	delete(w.playerRoom, id)
	return p, inventory, nil
}

// PlayerRoom returns the room a player is in.
func (w *World) PlayerRoom(id PlayerID) (*Room, bool) {
	roomID, ok := w.playerRoom[id]
	if !ok {
		return nil, false
	}
	r, ok := w.rooms[roomID]
	return r, ok
}

// MovePlayer relocates a player and returns the room they left.
func (w *World) MovePlayer(id PlayerID, to RoomID) (*Room, error) {
	p, ok := w.players[id]
	if !ok {
		return nil, playerNotFound(id.String())
	}
	dest, ok := w.rooms[to]
	if !ok {
		return nil, roomNotFound(to)
	}
	from, ok := w.PlayerRoom(id)
	if !ok {
		return nil, oops.Code(CodeInvariant).With("player_id", id.String()).Errorf("player has no room")
	}
	from.occupants = removeID(from.occupants, id)
	dest.occupants = append(dest.occupants, id)
	w.playerRoom[id] = to
	p.LastRoomID = to
	return from, nil
}

// MoveObjectToRoom moves an object into a room, out of wherever it was.
func (w *World) MoveObjectToRoom(id ObjectID, to RoomID) error {
	return w.moveObject(id, InRoom(to))
}

// MoveObjectToPlayer moves an object into a player's inventory.
func (w *World) MoveObjectToPlayer(id ObjectID, to PlayerID) error {
	return w.moveObject(id, HeldBy(to))
}

func (w *World) moveObject(id ObjectID, c Containment) error {
	o, ok := w.objects[id]
	if !ok {
		return objectNotFound(id)
	}
	// Both ends are validated before anything changes so a failed move
	// leaves the object where it was.
	if err := w.checkContainer(c); err != nil {
		return err
	}
	w.detach(o)
	w.attach(o, c)
	return nil
}

// DestroyObject removes an object from its container and from the world.
func (w *World) DestroyObject(id ObjectID) (*Object, error) {
	o, ok := w.objects[id]
	if !ok {
		return nil, objectNotFound(id)
	}
	w.detach(o)
	delete(w.objects, id)
	return o, nil
}

// SetExit adds or replaces an exit. The target must exist.
func (w *World) SetExit(from RoomID, label string, to RoomID) error {
	room, ok := w.rooms[from]
	if !ok {
		return roomNotFound(from)
	}
	if _, ok := w.rooms[to]; !ok {
		return roomNotFound(to)
	}
	label = NormalizeExitLabel(label)
	if err := ValidateExitLabel(label); err != nil {
		return err
	}
	room.Exits[label] = to
	return nil
}

// RemoveExit deletes an exit from a room.
func (w *World) RemoveExit(from RoomID, label string) error {
	room, ok := w.rooms[from]
	if !ok {
		return roomNotFound(from)
	}
	delete(room.Exits, NormalizeExitLabel(label))
	return nil
}

// Dig creates room and links it to from with exitLabel, and back with
// returnLabel. Nothing changes if the room's slug is taken or the origin
// already has an exit named exitLabel.
func (w *World) Dig(from RoomID, exitLabel, returnLabel string, room *Room) error {
	origin, ok := w.rooms[from]
	if !ok {
		return roomNotFound(from)
	}
	exitLabel = NormalizeExitLabel(exitLabel)
	returnLabel = NormalizeExitLabel(returnLabel)
	if err := ValidateExitLabel(exitLabel); err != nil {
		return err
	}
	if err := ValidateExitLabel(returnLabel); err != nil {
		return err
	}
	if _, exists := w.rooms[room.ID]; exists {
		return oops.Code(CodeRoomExists).With("room_id", string(room.ID)).Wrap(ErrRoomExists)
	}
	if _, exists := origin.Exits[exitLabel]; exists {
		return oops.Code(CodeExitExists).With("room_id", string(from)).With("exit", exitLabel).Wrap(ErrExitExists)
	}
	if room.Exits == nil {
		room.Exits = make(map[string]RoomID)
	}
	if err := w.AddRoom(room); err != nil {
		return err
	}
	origin.Exits[exitLabel] = room.ID
	room.Exits[returnLabel] = from
	return nil
}

// RoomObjects returns the objects lying in a room, in arrival order.
func (w *World) RoomObjects(id RoomID) []*Object {
	room, ok := w.rooms[id]
	if !ok {
		return nil
	}
	return w.resolveObjects(room.contents)
}

// InventoryObjects returns the objects a player carries, in pickup order.
func (w *World) InventoryObjects(id PlayerID) []*Object {
	p, ok := w.players[id]
	if !ok {
		return nil
	}
	return w.resolveObjects(p.inventory)
}

// OccupantsOf returns the players in a room, in arrival order.
func (w *World) OccupantsOf(id RoomID) []*Player {
	room, ok := w.rooms[id]
	if !ok {
		return nil
	}
	out := make([]*Player, 0, len(room.occupants))
	for _, pid := range room.occupants {
		if p, ok := w.players[pid]; ok {
			out = append(out, p)
		}
	}
	return out
}

// CheckInvariants verifies exclusive containment, index consistency and exit
// integrity. It returns every violation found, joined.
func (w *World) CheckInvariants() error {
	var errs []error
	seen := make(map[ObjectID]string)
	note := func(id ObjectID, where string) {
		if prev, dup := seen[id]; dup {
			errs = append(errs, oops.Code(CodeInvariant).
				With("object_id", string(id)).
				Errorf("object contained by %s and %s", prev, where))
		}
		seen[id] = where
	}
	for _, r := range w.rooms {
		for _, id := range r.contents {
			note(id, "room "+string(r.ID))
			if o, ok := w.objects[id]; !ok || o.LocationID == nil || *o.LocationID != r.ID || o.OwnerID != nil {
				errs = append(errs, oops.Code(CodeInvariant).With("object_id", string(id)).Errorf("room index disagrees with object"))
			}
		}
		for label, target := range r.Exits {
			if _, ok := w.rooms[target]; !ok {
				errs = append(errs, oops.Code(CodeInvariant).
					With("room_id", string(r.ID)).With("exit", label).
					Errorf("exit targets missing room %q", target))
			}
		}
	}
	for _, p := range w.players {
		for _, id := range p.inventory {
			note(id, "player "+p.Username)
			if o, ok := w.objects[id]; !ok || o.OwnerID == nil || *o.OwnerID != p.ID || o.LocationID != nil {
				errs = append(errs, oops.Code(CodeInvariant).With("object_id", string(id)).Errorf("inventory index disagrees with object"))
			}
		}
		roomID, ok := w.playerRoom[p.ID]
		if !ok {
			errs = append(errs, oops.Code(CodeInvariant).With("player_id", p.ID.String()).Errorf("player has no room"))
			continue
		}
		if r, ok := w.rooms[roomID]; !ok || !slices.Contains(r.occupants, p.ID) {
			errs = append(errs, oops.Code(CodeInvariant).With("player_id", p.ID.String()).Errorf("room does not list occupant"))
		}
	}
	for id, o := range w.objects {
		if _, ok := seen[id]; !ok && o.Containment().Type() != ContainmentNone {
			errs = append(errs, oops.Code(CodeInvariant).With("object_id", string(id)).Errorf("object claims a container that does not list it"))
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns a deep copy of the world for readers outside the loop.
func (w *World) Snapshot() *World {
	s := New()
	for id, r := range w.rooms {
		s.rooms[id] = r.Clone()
	}
	for id, o := range w.objects {
		s.objects[id] = o.Clone()
	}
	for id, p := range w.players {
		s.players[id] = p.Clone()
	}
	for k, v := range w.usernames {
		s.usernames[k] = v
	}
	for k, v := range w.playerRoom {
		s.playerRoom[k] = v
	}
	return s
}

func (w *World) checkContainer(c Containment) error {
	if err := c.Validate(); err != nil {
		return oops.Code(CodeInvalidMove).Wrap(err)
	}
	if c.RoomID != nil {
		if _, ok := w.rooms[*c.RoomID]; !ok {
			return roomNotFound(*c.RoomID)
		}
	}
	if c.PlayerID != nil {
		if _, ok := w.players[*c.PlayerID]; !ok {
			return playerNotFound(c.PlayerID.String())
		}
	}
	return nil
}

func (w *World) detach(o *Object) {
	if o.LocationID != nil {
		if r, ok := w.rooms[*o.LocationID]; ok {
			r.contents = removeID(r.contents, o.ID)
		}
	}
	if o.OwnerID != nil {
		if p, ok := w.players[*o.OwnerID]; ok {
			p.inventory = removeID(p.inventory, o.ID)
		}
	}
	o.setContainment(Containment{})
}

func (w *World) attach(o *Object, c Containment) {
	o.setContainment(c)
	switch c.Type() {
	case ContainmentRoom:
		r := w.rooms[*c.RoomID]
		r.contents = append(r.contents, o.ID)
	case ContainmentPlayer:
		p := w.players[*c.PlayerID]
		p.inventory = append(p.inventory, o.ID)
	case ContainmentNone:
	}
}

func (w *World) resolveObjects(ids []ObjectID) []*Object {
	out := make([]*Object, 0, len(ids))
	for _, id := range ids {
		if o, ok := w.objects[id]; ok {
			out = append(out, o)
		}
	}
	return out
}

func removeID[T comparable](ids []T, id T) []T {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
