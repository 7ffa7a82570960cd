// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/world"
)

type fixture struct {
	world *world.World
	alice *world.Player
	bob   *world.Player
	lamp  *world.Object
	lamp2 *world.Object
	note  *world.Object
}

// newFixture builds a hall with a north exit, two lamps on the floor, alice
// carrying a note, and bob standing nearby.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.New()
	hall, err := world.NewRoomWithID("hall", "Hall", "A long hall.")
	require.NoError(t, err)
	garden, err := world.NewRoomWithID("garden", "Garden", "A quiet garden.")
	require.NoError(t, err)
	require.NoError(t, w.AddRoom(hall))
	require.NoError(t, w.AddRoom(garden))
	require.NoError(t, w.SetExit("hall", "north", "garden"))
	require.NoError(t, w.SetExit("garden", "south", "hall"))

	alice, err := world.NewPlayer("alice", "hash")
	require.NoError(t, err)
	note, err := world.NewObjectWithID("note", "folded note", "A folded note.")
	require.NoError(t, err)
	note.OwnerID = &alice.ID
	require.NoError(t, w.AddPlayer(alice, "hall", []*world.Object{note}))

	bob, err := world.NewPlayer("bob", "hash")
	require.NoError(t, err)
	require.NoError(t, w.AddPlayer(bob, "hall", nil))

	roomID := world.RoomID("hall")
	lamp, err := world.NewObjectWithID("brass-lamp", "brass lamp", "A brass lamp.")
	require.NoError(t, err)
	lamp.LocationID = &roomID
	require.NoError(t, w.AddObject(lamp))

	lamp2, err := world.NewObjectWithID("tin-lamp", "tin lamp", "A tin lamp.")
	require.NoError(t, err)
	lamp2.LocationID = &roomID
	require.NoError(t, w.AddObject(lamp2))

	return &fixture{world: w, alice: alice, bob: bob, lamp: lamp, lamp2: lamp2, note: note}
}
