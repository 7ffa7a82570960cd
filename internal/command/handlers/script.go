// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/script"
	"github.com/lanternmush/lantern/internal/world"
)

// InvokeVerb runs the script attached to a verb on an object and turns its
// outcome into messages, follow-up commands and scheduled spawns.
func InvokeVerb(ctx context.Context, cmd command.InvokeVerb, env *command.Env) (*event.Result, error) {
	code, ok := cmd.Object.Verb(cmd.Verb)
	if !ok || env.Scripts == nil {
		return nil, command.WorldError("Nothing happens.", nil)
	}
	room, err := env.Room()
	if err != nil {
		return nil, err
	}

	outcome, err := env.Scripts.Run(ctx, script.Invocation{
		Code:   code,
		Target: script.Entity{ID: cmd.Object.ID.String(), Name: cmd.Object.Name, Description: cmd.Object.Description},
		Actor:  script.Entity{ID: env.Actor.ID.String(), Name: env.Actor.Username, Description: env.Actor.Description},
		Room:   script.Entity{ID: room.ID.String(), Name: room.Name, Description: room.Description()},
		Verb:   cmd.Verb,
		Args:   cmd.Args,
	})
	if err != nil {
		slog.WarnContext(ctx, "scripted verb failed",
			"verb", cmd.Verb,
			"object_id", cmd.Object.ID.String(),
			"error", err,
		)
		return nil, command.WorldError(fmt.Sprintf("The %s sputters and does nothing.", cmd.Object.Name), err)
	}

	res := event.NewResult()
	for _, msg := range outcome.Messages {
		res.Add(env.Actor.ID, event.ScriptOutput{Text: msg})
	}
	for _, msg := range outcome.RoomMessages {
		res.Broadcast(room.Occupants(), event.ScriptOutput{Text: msg}, event.Observer, env.Actor.ID)
	}
	if !outcome.Success && len(outcome.Messages) == 0 {
		res.Add(env.Actor.ID, event.System{Text: "Nothing happens."})
	}
	for _, input := range outcome.Commands {
		res.Follow(env.Actor.ID, input)
	}
	for _, spawn := range outcome.Spawns {
		obj, err := world.NewObject(spawn.Name, spawn.Description)
		if err != nil {
			slog.WarnContext(ctx, "script spawn rejected", "verb", cmd.Verb, "name", spawn.Name, "error", err)
			continue
		}
		if env.Spawner != nil {
			env.Spawner.SpawnLater(spawn.Delay, room.ID, obj)
		}
	}
	return res, nil
}
