// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

// Take moves an object from the room into the actor's inventory. Bystanders
// are not told.
func Take(ctx context.Context, cmd command.Take, env *command.Env) (*event.Result, error) {
	obj := cmd.Object
	if !obj.IsPortable() {
		return nil, command.WorldError(fmt.Sprintf("You can't take the %s.", obj.Name), nil)
	}
	if err := env.World.MoveObjectToPlayer(obj.ID, env.Actor.ID); err != nil {
		return nil, command.WorldError(fmt.Sprintf("You can't take the %s.", obj.Name), err)
	}
	if err := env.Store.SaveObject(ctx, obj, store.Deferred); err != nil {
		return nil, err
	}
	return event.Reply(env.Actor.ID, event.ItemTaken{Actor: env.Actor.Username, Item: obj.Name}), nil
}

// Drop puts a carried object in the actor's room.
func Drop(ctx context.Context, cmd command.Drop, env *command.Env) (*event.Result, error) {
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	obj := cmd.Object
	if err := env.World.MoveObjectToRoom(obj.ID, room.ID); err != nil {
		return nil, command.WorldError(fmt.Sprintf("You can't drop the %s.", obj.Name), err)
	}
	if err := env.Store.SaveObject(ctx, obj, store.Deferred); err != nil {
		return nil, err
	}

	ev := event.ItemDropped{Actor: env.Actor.Username, Item: obj.Name}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Give hands a carried object to another player in the room.
func Give(ctx context.Context, cmd command.Give, env *command.Env) (*event.Result, error) {
	if cmd.Recipient.ID == env.Actor.ID {
		return nil, command.WorldError("You already have it.", nil)
	}
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	obj := cmd.Object
	if err := env.World.MoveObjectToPlayer(obj.ID, cmd.Recipient.ID); err != nil {
		return nil, command.WorldError(fmt.Sprintf("You can't give the %s away.", obj.Name), err)
	}
	if err := env.Store.SaveObject(ctx, obj, store.Deferred); err != nil {
		return nil, err
	}

	given := event.ItemGiven{Giver: env.Actor.Username, Receiver: cmd.Recipient.Username, Item: obj.Name}
	return event.Reply(env.Actor.ID, given).
		Add(cmd.Recipient.ID, event.ItemReceived{Giver: env.Actor.Username, Item: obj.Name}).
		Broadcast(room.Occupants(), given, event.Observer, env.Actor.ID, cmd.Recipient.ID), nil
}

// Operate opens, closes, locks or unlocks an object. Locking and unlocking
// need the object named by the target's KeyID in the actor's inventory.
func Operate(ctx context.Context, cmd command.Operate, env *command.Env) (*event.Result, error) {
	obj := cmd.Object
	flags := obj.Flags

	switch cmd.Action {
	case command.ActionOpen:
		if !flags.Has(world.FlagOpenable) {
			return nil, command.WorldError(fmt.Sprintf("The %s can't be opened.", obj.Name), nil)
		}
		if flags.Has(world.FlagOpen) {
			return nil, command.WorldError(fmt.Sprintf("The %s is already open.", obj.Name), nil)
		}
		if flags.Has(world.FlagLocked) {
			return nil, command.WorldError(fmt.Sprintf("The %s is locked.", obj.Name), nil)
		}
		flags = flags.With(world.FlagOpen)
	case command.ActionClose:
		if !flags.Has(world.FlagOpenable) {
			return nil, command.WorldError(fmt.Sprintf("The %s can't be closed.", obj.Name), nil)
		}
		if !flags.Has(world.FlagOpen) {
			return nil, command.WorldError(fmt.Sprintf("The %s is already closed.", obj.Name), nil)
		}
		flags = flags.Without(world.FlagOpen)
	case command.ActionLock:
		if !flags.Has(world.FlagLockable) {
			return nil, command.WorldError(fmt.Sprintf("The %s has no lock.", obj.Name), nil)
		}
		if flags.Has(world.FlagLocked) {
			return nil, command.WorldError(fmt.Sprintf("The %s is already locked.", obj.Name), nil)
		}
		if flags.Has(world.FlagOpen) {
			return nil, command.WorldError(fmt.Sprintf("You need to close the %s first.", obj.Name), nil)
		}
		if !carriesKey(env, obj) {
			return nil, command.WorldError("You don't have the key.", nil)
		}
		flags = flags.With(world.FlagLocked)
	case command.ActionUnlock:
		if !flags.Has(world.FlagLockable) {
			return nil, command.WorldError(fmt.Sprintf("The %s has no lock.", obj.Name), nil)
		}
		if !flags.Has(world.FlagLocked) {
			return nil, command.WorldError(fmt.Sprintf("The %s isn't locked.", obj.Name), nil)
		}
		if !carriesKey(env, obj) {
			return nil, command.WorldError("You don't have the key.", nil)
		}
		flags = flags.Without(world.FlagLocked)
	default:
		return nil, command.ErrInvalidArgs(string(cmd.Action), "open|close|lock|unlock <object>")
	}

	obj.Flags = flags
	if err := env.Store.SaveObject(ctx, obj, store.Deferred); err != nil {
		return nil, err
	}

	ev := event.StateChanged{Actor: env.Actor.Username, Item: obj.Name, Verb: string(cmd.Action)}
	res := event.Reply(env.Actor.ID, ev)
	if room, ok := env.World.PlayerRoom(env.Actor.ID); ok {
		res.Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID)
	}
	return res, nil
}

func carriesKey(env *command.Env, obj *world.Object) bool {
	if obj.KeyID == nil {
		return false
	}
	for _, held := range env.World.InventoryObjects(env.Actor.ID) {
		if held.ID == *obj.KeyID {
			return true
		}
	}
	return false
}

// Read shows the text written on an object.
func Read(_ context.Context, cmd command.Read, env *command.Env) (*event.Result, error) {
	ev := event.TextRead{Actor: env.Actor.Username, Item: cmd.Object.Name}
	if cmd.Object.TextContent != nil {
		ev.Text = *cmd.Object.TextContent
	}
	res := event.Reply(env.Actor.ID, ev)
	if room, ok := env.World.PlayerRoom(env.Actor.ID); ok {
		res.Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID)
	}
	return res, nil
}

// Write replaces the text of a writeable object.
func Write(ctx context.Context, cmd command.Write, env *command.Env) (*event.Result, error) {
	obj := cmd.Object
	if !obj.Flags.Has(world.FlagWriteable) {
		return nil, command.WorldError(fmt.Sprintf("You can't write on the %s.", obj.Name), nil)
	}
	if err := world.ValidateText(cmd.Text); err != nil {
		return nil, command.WorldError("That is too much to write.", err)
	}

	text := cmd.Text
	obj.TextContent = &text
	if err := env.Store.SaveObject(ctx, obj, store.Deferred); err != nil {
		return nil, err
	}

	ev := event.TextWritten{Actor: env.Actor.Username, Item: obj.Name}
	res := event.Reply(env.Actor.ID, ev)
	if room, ok := env.World.PlayerRoom(env.Actor.ID); ok {
		res.Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID)
	}
	return res, nil
}
