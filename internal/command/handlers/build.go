// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/store"
	"github.com/lanternmush/lantern/internal/world"
)

// defaultReturnLabel is used when an exit label has no conventional opposite.
const defaultReturnLabel = "back"

// Dig creates a room and joins it to the actor's room with a pair of exits.
// Both rooms are written Immediately.
func Dig(ctx context.Context, cmd command.Dig, env *command.Env) (*event.Result, error) {
	origin, err := env.Room()
	if err != nil {
		return nil, err
	}
	if !world.CanModify(origin.CreatorUsername, env.Actor.Username) {
		return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "dig from", Target: origin.Name}), nil
	}

	returnLabel := cmd.Return
	if returnLabel == "" {
		returnLabel = world.ReverseLabel(cmd.Exit)
	}
	if returnLabel == "" {
		returnLabel = defaultReturnLabel
	}

	room, err := world.NewRoom(cmd.RoomName, "")
	if err != nil {
		return nil, command.WorldError("That is not a good name for a room.", err)
	}
	room.CreatorUsername = world.CreatorOf(env.Actor.Username)
	room.CreatedAt = env.Clock()

	if err := env.World.Dig(origin.ID, cmd.Exit, returnLabel, room); err != nil {
		switch {
		case errors.Is(err, world.ErrRoomExists):
			return nil, command.WorldError(fmt.Sprintf("A room called %s already exists.", cmd.RoomName), err)
		case errors.Is(err, world.ErrExitExists):
			return nil, command.WorldError(fmt.Sprintf("There is already an exit %s here.", cmd.Exit), err)
		}
		var verr *world.ValidationError
		if errors.As(err, &verr) {
			return nil, command.WorldError("Exit names must be a single word.", err)
		}
		return nil, err
	}

	if err := env.Store.SaveRoom(ctx, room, store.Immediate); err != nil {
		return nil, err
	}
	if err := env.Store.SaveRoom(ctx, origin, store.Immediate); err != nil {
		return nil, err
	}

	ev := event.RoomDug{
		Actor:  env.Actor.Username,
		Room:   room.Name,
		Exit:   world.NormalizeExitLabel(cmd.Exit),
		Return: world.NormalizeExitLabel(returnLabel),
	}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(origin.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Rename renames the actor's room or a bound object. Only the creator of an
// owned entity may rename it.
func Rename(ctx context.Context, cmd command.Rename, env *command.Env) (*event.Result, error) {
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	if err := world.ValidateName(cmd.NewName); err != nil {
		return nil, command.WorldError("That is not a good name.", err)
	}

	var oldName string
	if cmd.Object == nil {
		if !world.CanModify(room.CreatorUsername, env.Actor.Username) {
			return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "rename", Target: room.Name}), nil
		}
		oldName = room.Name
		room.Name = cmd.NewName
		if err := env.Store.SaveRoom(ctx, room, store.Immediate); err != nil {
			return nil, err
		}
	} else {
		obj := cmd.Object
		if !world.CanModify(obj.CreatorUsername, env.Actor.Username) {
			return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "rename", Target: obj.Name}), nil
		}
		oldName = obj.Name
		obj.Name = cmd.NewName
		if err := env.Store.SaveObject(ctx, obj, store.Immediate); err != nil {
			return nil, err
		}
	}

	ev := event.Renamed{Actor: env.Actor.Username, OldName: oldName, NewName: cmd.NewName}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Describe sets the description of the actor's room, a bound object, or the
// actor.
func Describe(ctx context.Context, cmd command.Describe, env *command.Env) (*event.Result, error) {
	if err := world.ValidateDescription(cmd.Text); err != nil {
		return nil, command.WorldError("That description won't do.", err)
	}

	switch {
	case cmd.Self:
		env.Actor.Description = cmd.Text
		if err := env.Store.SavePlayer(ctx, env.Actor, store.Deferred); err != nil {
			return nil, err
		}
		return event.Reply(env.Actor.ID, event.Described{Target: "yourself"}), nil

	case cmd.Object != nil:
		obj := cmd.Object
		if !world.CanModify(obj.CreatorUsername, env.Actor.Username) {
			return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "describe", Target: obj.Name}), nil
		}
		obj.Description = cmd.Text
		if err := env.Store.SaveObject(ctx, obj, store.Immediate); err != nil {
			return nil, err
		}
		return event.Reply(env.Actor.ID, event.Described{Target: obj.Name}), nil

	default:
		room, err := env.Room()
		if err != nil {
			return nil, err
		}
		if !world.CanModify(room.CreatorUsername, env.Actor.Username) {
			return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "describe", Target: room.Name}), nil
		}
		room.LongDescription = cmd.Text
		if err := env.Store.SaveRoom(ctx, room, store.Immediate); err != nil {
			return nil, err
		}
		return event.Reply(env.Actor.ID, event.Described{Target: room.Name}), nil
	}
}

// Recycle destroys an object the actor may modify.
func Recycle(ctx context.Context, cmd command.Recycle, env *command.Env) (*event.Result, error) {
	obj := cmd.Object
	if !world.CanModify(obj.CreatorUsername, env.Actor.Username) {
		return event.Reply(env.Actor.ID, event.PermissionDenied{Action: "recycle", Target: obj.Name}), nil
	}
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	if _, err := env.World.DestroyObject(obj.ID); err != nil {
		return nil, command.WorldError(fmt.Sprintf("The %s resists.", obj.Name), err)
	}
	if err := env.Store.DeleteObject(ctx, obj.ID, store.Immediate); err != nil {
		return nil, err
	}

	ev := event.ObjectRecycled{Actor: env.Actor.Username, Item: obj.Name}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Create makes a new object owned and carried by the actor.
func Create(ctx context.Context, cmd command.Create, env *command.Env) (*event.Result, error) {
	obj, err := world.NewObject(cmd.ObjectName, cmd.Description)
	if err != nil {
		return nil, command.WorldError("You can't make that.", err)
	}
	obj.CreatorUsername = world.CreatorOf(env.Actor.Username)
	obj.OwnerID = &env.Actor.ID
	obj.CreatedAt = env.Clock()

	if err := env.World.AddObject(obj); err != nil {
		return nil, err
	}
	if err := env.Store.SaveObject(ctx, obj, store.Immediate); err != nil {
		return nil, err
	}

	ev := event.ObjectCreated{Actor: env.Actor.Username, Item: obj.Name}
	res := event.Reply(env.Actor.ID, ev)
	if room, ok := env.World.PlayerRoom(env.Actor.ID); ok {
		res.Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID)
	}
	return res, nil
}
