// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package event

import (
	"github.com/lanternmush/lantern/internal/world"
)

// DescribeRoom builds what viewer sees of room: its objects other than
// scenery, its exits and the other players present.
func DescribeRoom(w *world.World, room *world.Room, viewer world.PlayerID) RoomDescribed {
	view := RoomDescribed{
		Name:        room.Name,
		Description: room.Description(),
		Exits:       room.ExitLabels(),
	}
	for _, o := range w.RoomObjects(room.ID) {
		if o.Flags.Has(world.FlagScenery) {
			continue
		}
		view.Objects = append(view.Objects, o.Name)
	}
	for _, p := range w.OccupantsOf(room.ID) {
		if p.ID == viewer {
			continue
		}
		view.Occupants = append(view.Occupants, p.Username)
	}
	return view
}

// ObjectStates lists the visible states of an object for examination.
func ObjectStates(o *world.Object) []string {
	var states []string
	if o.Flags.Has(world.FlagOpenable) {
		if o.Flags.Has(world.FlagOpen) {
			states = append(states, "open")
		} else {
			states = append(states, "closed")
		}
	}
	if o.Flags.Has(world.FlagLockable) && o.Flags.Has(world.FlagLocked) {
		states = append(states, "locked")
	}
	if o.Flags.Has(world.FlagLightSource) && o.Flags.Has(world.FlagLit) {
		states = append(states, "glowing")
	}
	return states
}
