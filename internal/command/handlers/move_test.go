// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/command/handlers"
	"github.com/lanternmush/lantern/internal/command/handlers/testutil"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

func TestMove_BroadcastsDepartureAndArrival(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	carol := b.Player("carol", "destination")
	env, rec := b.Env(alice)

	res, err := handlers.Move(context.Background(), command.Move{Exit: "north"}, env)
	require.NoError(t, err)

	room, ok := b.World.PlayerRoom(alice.ID)
	require.True(t, ok)
	assert.Equal(t, world.RoomID("destination"), room.ID)

	actor := testutil.For(res, alice.ID)
	require.Len(t, actor, 3)
	assert.Equal(t, event.Departed{Actor: "alice", Exit: "north"}, actor[0].Event)
	assert.Equal(t, event.Arrived{Actor: "alice", Room: "Destination"}, actor[1].Event)
	view, ok := actor[2].Event.(event.RoomDescribed)
	require.True(t, ok)
	assert.Equal(t, "Destination", view.Name)
	assert.Equal(t, []string{"carol"}, view.Occupants)
	for _, m := range actor {
		assert.Equal(t, event.Actor, m.Audience)
	}

	origin := testutil.For(res, bob.ID)
	require.Len(t, origin, 1)
	assert.Equal(t, event.Observer, origin[0].Audience)
	assert.Equal(t, event.KindDeparted, origin[0].Event.Kind())

	dest := testutil.For(res, carol.ID)
	require.Len(t, dest, 1)
	assert.Equal(t, event.Observer, dest[0].Audience)
	assert.Equal(t, event.KindArrived, dest[0].Event.Kind())

	assert.Equal(t, []testutil.Write{{Kind: "player", ID: alice.ID.String(), Mode: store.Deferred}}, rec.Writes)
	require.NoError(t, b.World.CheckInvariants())
}

func TestMove_UsesRoomNarration(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	origin, _ := b.World.Room("origin")
	origin.ExitText = "%s slips into the shadows."
	env, _ := b.Env(alice)

	res, err := handlers.Move(context.Background(), command.Move{Exit: "north"}, env)
	require.NoError(t, err)

	msgs := testutil.For(res, bob.ID)
	require.Len(t, msgs, 1)
	text, ok := event.DefaultFormatters().Render(msgs[0].Event, msgs[0].Audience)
	require.True(t, ok)
	assert.Equal(t, "alice slips into the shadows.", text)
}

func TestMove_UnknownExitChangesNothing(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	env, rec := b.Env(alice)

	res, err := handlers.Move(context.Background(), command.Move{Exit: "south"}, env)
	require.NoError(t, err)

	assert.Equal(t, []event.Event{event.ExitNotFound{Label: "south"}}, testutil.Events(testutil.For(res, alice.ID)))
	assert.Empty(t, testutil.For(res, bob.ID))
	room, _ := b.World.PlayerRoom(alice.ID)
	assert.Equal(t, world.RoomID("origin"), room.ID)
	assert.Empty(t, rec.Writes)
}

func TestMove_DanglingExit(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	origin, _ := b.World.Room("origin")
	origin.Exits["down"] = "cellar"
	env, _ := b.Env(alice)

	_, err := handlers.Move(context.Background(), command.Move{Exit: "down"}, env)
	require.Error(t, err)
	assert.Equal(t, "That way leads nowhere.", command.PlayerMessage(err))
	room, _ := b.World.PlayerRoom(alice.ID)
	assert.Equal(t, world.RoomID("origin"), room.ID)
}
