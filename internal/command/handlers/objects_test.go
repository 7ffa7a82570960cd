// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers_test

import (
	"context"
	"errors"
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

func TestTake_MovesObjectIntoInventorySilently(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	lamp := b.ObjectIn("lamp", "lamp", "origin")
	env, rec := b.Env(alice)

	res, err := handlers.Take(context.Background(), command.Take{Object: lamp}, env)
	require.NoError(t, err)

	assert.Equal(t, []event.Event{event.ItemTaken{Actor: "alice", Item: "lamp"}}, testutil.Events(testutil.For(res, alice.ID)))
	assert.Empty(t, testutil.For(res, bob.ID))

	assert.Equal(t, world.ContainmentPlayer, lamp.Containment().Type())
	assert.Equal(t, alice.ID, *lamp.OwnerID)
	assert.Nil(t, lamp.LocationID)
	assert.Empty(t, b.World.RoomObjects("origin"))
	assert.Equal(t, []*world.Object{lamp}, b.World.InventoryObjects(alice.ID))
	assert.Equal(t, []testutil.Write{{Kind: "object", ID: "lamp", Mode: store.Deferred}}, rec.Writes)
	require.NoError(t, b.World.CheckInvariants())
}

func TestTake_RefusesScenery(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	statue := b.ObjectIn("statue", "statue", "origin")
	statue.Flags = statue.Flags.With(world.FlagScenery)
	env, rec := b.Env(alice)

	_, err := handlers.Take(context.Background(), command.Take{Object: statue}, env)
	require.Error(t, err)
	assert.Equal(t, "You can't take the statue.", command.PlayerMessage(err))
	assert.Equal(t, world.ContainmentRoom, statue.Containment().Type())
	assert.Empty(t, rec.Writes)
}

func TestTake_StoreFailureIsInternal(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	lamp := b.ObjectIn("lamp", "lamp", "origin")
	env, rec := b.Env(alice)
	rec.Err = errors.New("queue closed")

	_, err := handlers.Take(context.Background(), command.Take{Object: lamp}, env)
	require.Error(t, err)
	assert.False(t, command.IsPlayerFacing(err))
}

func TestDrop_TellsTheRoom(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	lamp := b.ObjectHeld("lamp", "lamp", alice)
	env, _ := b.Env(alice)

	res, err := handlers.Drop(context.Background(), command.Drop{Object: lamp}, env)
	require.NoError(t, err)

	assert.Len(t, testutil.For(res, alice.ID), 1)
	observed := testutil.For(res, bob.ID)
	require.Len(t, observed, 1)
	assert.Equal(t, event.Observer, observed[0].Audience)
	assert.Equal(t, []*world.Object{lamp}, b.World.RoomObjects("origin"))
	assert.Empty(t, b.World.InventoryObjects(alice.ID))
}

func TestGive(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	bob := b.Player("bob", "origin")
	carol := b.Player("carol", "origin")
	lamp := b.ObjectHeld("lamp", "lamp", alice)
	env, _ := b.Env(alice)

	res, err := handlers.Give(context.Background(), command.Give{Object: lamp, Recipient: bob}, env)
	require.NoError(t, err)

	assert.Equal(t, []*world.Object{lamp}, b.World.InventoryObjects(bob.ID))
	assert.Equal(t, []event.Event{event.ItemReceived{Giver: "alice", Item: "lamp"}}, testutil.Events(testutil.For(res, bob.ID)))
	assert.Len(t, testutil.For(res, carol.ID), 1)
	assert.Len(t, testutil.For(res, alice.ID), 1)
}

func TestGive_ToSelf(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	lamp := b.ObjectHeld("lamp", "lamp", alice)
	env, _ := b.Env(alice)

	_, err := handlers.Give(context.Background(), command.Give{Object: lamp, Recipient: alice}, env)
	require.Error(t, err)
	assert.Equal(t, "You already have it.", command.PlayerMessage(err))
}

func TestOperate(t *testing.T) {
	newChest := func(t *testing.T) (*testutil.WorldBuilder, *world.Player, *world.Object, *world.Object) {
		b := testutil.NewWorld(t)
		alice := b.Player("alice", "origin")
		chest := b.ObjectIn("chest", "oak chest", "origin")
		chest.Flags = world.FlagOpenable | world.FlagLockable
		key := b.ObjectHeld("iron-key", "iron key", alice)
		keyID := key.ID
		chest.KeyID = &keyID
		return b, alice, chest, key
	}

	tests := []struct {
		name      string
		setup     func(chest *world.Object, b *testutil.WorldBuilder, key *world.Object)
		action    command.Action
		wantFlags world.Flags
		wantErr   string
	}{
		{
			name:      "open closed chest",
			action:    command.ActionOpen,
			wantFlags: world.FlagOpenable | world.FlagLockable | world.FlagOpen,
		},
		{
			name:    "close closed chest",
			action:  command.ActionClose,
			wantErr: "The oak chest is already closed.",
		},
		{
			name:      "lock with key",
			action:    command.ActionLock,
			wantFlags: world.FlagOpenable | world.FlagLockable | world.FlagLocked,
		},
		{
			name: "lock without key",
			setup: func(_ *world.Object, b *testutil.WorldBuilder, key *world.Object) {
				require.NoError(t, b.World.MoveObjectToRoom(key.ID, "destination"))
			},
			action:  command.ActionLock,
			wantErr: "You don't have the key.",
		},
		{
			name: "lock open chest",
			setup: func(chest *world.Object, _ *testutil.WorldBuilder, _ *world.Object) {
				chest.Flags = chest.Flags.With(world.FlagOpen)
			},
			action:  command.ActionLock,
			wantErr: "You need to close the oak chest first.",
		},
		{
			name: "open locked chest",
			setup: func(chest *world.Object, _ *testutil.WorldBuilder, _ *world.Object) {
				chest.Flags = chest.Flags.With(world.FlagLocked)
			},
			action:  command.ActionOpen,
			wantErr: "The oak chest is locked.",
		},
		{
			name: "unlock locked chest",
			setup: func(chest *world.Object, _ *testutil.WorldBuilder, _ *world.Object) {
				chest.Flags = chest.Flags.With(world.FlagLocked)
			},
			action:    command.ActionUnlock,
			wantFlags: world.FlagOpenable | world.FlagLockable,
		},
		{
			name: "open plain object",
			setup: func(chest *world.Object, _ *testutil.WorldBuilder, _ *world.Object) {
				chest.Flags = world.FlagPortable
			},
			action:  command.ActionOpen,
			wantErr: "The oak chest can't be opened.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, alice, chest, key := newChest(t)
			if tt.setup != nil {
				tt.setup(chest, b, key)
			}
			before := chest.Flags
			env, rec := b.Env(alice)

			res, err := handlers.Operate(context.Background(), command.Operate{Object: chest, Action: tt.action}, env)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, command.PlayerMessage(err))
				assert.Equal(t, before, chest.Flags)
				assert.Empty(t, rec.Writes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlags, chest.Flags)
			assert.Equal(t, []event.Event{event.StateChanged{Actor: "alice", Item: "oak chest", Verb: string(tt.action)}},
				testutil.Events(testutil.For(res, alice.ID)))
		})
	}
}

func TestWriteAndRead(t *testing.T) {
	b := testutil.NewWorld(t)
	alice := b.Player("alice", "origin")
	note := b.ObjectHeld("note", "note", alice)
	env, _ := b.Env(alice)

	_, err := handlers.Write(context.Background(), command.Write{Object: note, Text: "meet at noon"}, env)
	require.Error(t, err)
	assert.Equal(t, "You can't write on the note.", command.PlayerMessage(err))

	note.Flags = note.Flags.With(world.FlagWriteable)
	_, err = handlers.Write(context.Background(), command.Write{Object: note, Text: "meet at noon"}, env)
	require.NoError(t, err)

	res, err := handlers.Read(context.Background(), command.Read{Object: note}, env)
	require.NoError(t, err)
	assert.Equal(t, []event.Event{event.TextRead{Actor: "alice", Item: "note", Text: "meet at noon"}},
		testutil.Events(testutil.For(res, alice.ID)))
}
