// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package handlers

import (
	"context"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
)

// maxFindResults caps the lines returned by find.
const maxFindResults = 20

// Look describes the actor's room, or the bound object or player.
func Look(_ context.Context, cmd command.Look, env *command.Env) (*event.Result, error) {
	switch {
	case cmd.Object != nil:
		return event.Reply(env.Actor.ID, event.ObjectExamined{
			Name:        cmd.Object.Name,
			Description: cmd.Object.Description,
			States:      event.ObjectStates(cmd.Object),
		}), nil
	case cmd.Player != nil:
		examined := event.PlayerExamined{Name: cmd.Player.Username, Description: cmd.Player.Description}
		if !cmd.Player.LastActionAt.IsZero() {
			examined.Idle = env.Clock().Sub(cmd.Player.LastActionAt)
		}
		return event.Reply(env.Actor.ID, examined), nil
	}

	room, err := env.Room()
	if err != nil {
		return nil, err
	}
	return event.Reply(env.Actor.ID, event.DescribeRoom(env.World, room, env.Actor.ID)), nil
}

// ShowInventory lists what the actor carries.
func ShowInventory(_ context.Context, _ command.Inventory, env *command.Env) (*event.Result, error) {
	objects := env.World.InventoryObjects(env.Actor.ID)
	items := make([]string, len(objects))
	for i, o := range objects {
		items[i] = o.Name
	}
	return event.Reply(env.Actor.ID, event.InventoryListed{Items: items}), nil
}

// Help lists the registered verbs.
func Help(_ context.Context, _ command.Help, env *command.Env) (*event.Result, error) {
	if env.Registry == nil {
		return event.Reply(env.Actor.ID, event.HelpShown{}), nil
	}
	defs := env.Registry.Definitions()
	verbs := make([]string, len(defs))
	for i, d := range defs {
		verbs[i] = d.Name
	}
	return event.Reply(env.Actor.ID, event.HelpShown{Verbs: verbs}), nil
}

// Find matches a glob pattern against room and object names.
func Find(_ context.Context, cmd command.Find, env *command.Env) (*event.Result, error) {
	g, err := glob.Compile(strings.ToLower(cmd.Pattern))
	if err != nil {
		return nil, command.WorldError("That is not a valid pattern.", err)
	}

	var matches []string
	for _, r := range env.World.Rooms() {
		if g.Match(strings.ToLower(r.Name)) {
			matches = append(matches, r.Name+" (room)")
		}
	}
	for _, o := range env.World.Objects() {
		if g.Match(strings.ToLower(o.Name)) {
			matches = append(matches, o.Name+" (object)")
		}
	}
	sort.Strings(matches)
	if len(matches) > maxFindResults {
		matches = matches[:maxFindResults]
	}
	return event.Reply(env.Actor.ID, event.FindResults{Pattern: cmd.Pattern, Matches: matches}), nil
}
