// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
)

// Say speaks to everyone in the actor's room.
func Say(_ context.Context, cmd command.Say, env *command.Env) (*event.Result, error) {
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	ev := event.Said{Speaker: env.Actor.Username, Text: cmd.Text}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Emote shows a free-form action to everyone in the actor's room.
func Emote(_ context.Context, cmd command.Emote, env *command.Env) (*event.Result, error) {
	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	ev := event.Emoted{Actor: env.Actor.Username, Text: cmd.Text}
	return event.Reply(env.Actor.ID, ev).
		Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID), nil
}

// Who lists the players in the world.
func Who(_ context.Context, _ command.Who, env *command.Env) (*event.Result, error) {
	players := env.World.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Username
	}
	return event.Reply(env.Actor.ID, event.WhoListed{Names: names}), nil
}

// Quit says goodbye and asks the session layer to log the actor out once
// this result has been delivered.
func Quit(_ context.Context, _ command.Quit, env *command.Env) (*event.Result, error) {
	ev := event.PlayerQuit{Name: env.Actor.Username}
	res := event.Reply(env.Actor.ID, ev)
	if room, ok := env.World.PlayerRoom(env.Actor.ID); ok {
		res.Broadcast(room.Occupants(), ev, event.Observer, env.Actor.ID)
	}
	if env.Sessions != nil {
		env.Sessions.Logout(env.Actor.ID)
	}
	return res, nil
}
