// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/store"
)

// Move walks the actor through an exit. A single relocation produces four
// messages: departure for the actor and the origin's occupants, arrival plus
// the new room's description for the actor, and arrival for the destination's
// occupants.
func Move(ctx context.Context, cmd command.Move, env *command.Env) (*event.Result, error) {
	origin, err := env.Room()
	if err != nil {
		return nil, err
	}

	target, ok := origin.Exit(cmd.Exit)
	if !ok {
		return event.Reply(env.Actor.ID, event.ExitNotFound{Label: cmd.Exit}), nil
	}
	dest, ok := env.World.Room(target)
	if !ok {
		return nil, command.WorldError("That way leads nowhere.", nil)
	}

	witnesses := origin.Occupants()
	if _, err := env.World.MovePlayer(env.Actor.ID, dest.ID); err != nil {
		return nil, command.WorldError("Something prevents you from going that way.", err)
	}

	name := env.Actor.Username
	res := event.NewResult().
		Add(env.Actor.ID, event.Departed{Actor: name, Exit: cmd.Exit}).
		Broadcast(witnesses, event.Departed{Actor: name, Exit: cmd.Exit, Narration: origin.ExitText}, event.Observer, env.Actor.ID).
		Add(env.Actor.ID, event.Arrived{Actor: name, Room: dest.Name}).
		Add(env.Actor.ID, event.DescribeRoom(env.World, dest, env.Actor.ID)).
		Broadcast(dest.Occupants(), event.Arrived{Actor: name, Room: dest.Name, Narration: dest.EnterText}, event.Observer, env.Actor.ID)

	if err := env.Store.SavePlayer(ctx, env.Actor, store.Deferred); err != nil {
		return nil, err
	}
	return res, nil
}
