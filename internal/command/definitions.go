// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"sort"
	"strings"

	"github.com/lanternmush/lantern/internal/world"
)

// DefaultRegistry returns a registry holding every built-in definition.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterBuiltins adds the built-in verbs to r.
func RegisterBuiltins(r *Registry) error {
	for _, def := range builtins() {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func builtins() []Definition {
	defs := []Definition{
		{
			Name: "look", Aliases: []string{"l"},
			Usage: "look [[at] <target>]",
			Help:  "Look at the room, an object or a player",
			Build: buildLook,
		},
		{
			Name: "move", Aliases: []string{"go"},
			Usage: "move <exit>",
			Help:  "Walk through an exit",
			Build: buildMove,
		},
		{
			Name: "take", Aliases: []string{"get"},
			Usage: "take <object>",
			Help:  "Pick up an object",
			Build: func(b *Binder, args string) ParseResult {
				if args == "" {
					return Usage("take <object>")
				}
				obj, res := b.Object(args, ScopeRoom)
				if res != nil {
					return SearchFailed(res)
				}
				return Success(Take{Object: obj})
			},
		},
		{
			Name:  "drop",
			Usage: "drop <object>",
			Help:  "Put down a carried object",
			Build: func(b *Binder, args string) ParseResult {
				if args == "" {
					return Usage("drop <object>")
				}
				obj, res := b.Object(args, ScopeInventory)
				if res != nil {
					return SearchFailed(res)
				}
				return Success(Drop{Object: obj})
			},
		},
		{
			Name:  "give",
			Usage: "give <object> to <player>",
			Help:  "Hand a carried object to someone here",
			Build: buildGive,
		},
		{
			Name: "inventory", Aliases: []string{"inv", "i"},
			Usage: "inventory",
			Help:  "List what you are carrying",
			Build: func(*Binder, string) ParseResult { return Success(Inventory{}) },
		},
		{
			Name:  "say",
			Usage: "say <message>",
			Help:  "Speak to the room (shortcut: ')",
			Build: func(_ *Binder, args string) ParseResult {
				if args == "" {
					return Usage("say <message>")
				}
				return Success(Say{Text: args})
			},
		},
		{
			Name: "emote", Aliases: []string{"pose"},
			Usage: "emote <action>",
			Help:  "Perform an action (shortcut: :)",
			Build: func(_ *Binder, args string) ParseResult {
				if args == "" {
					return Usage("emote <action>")
				}
				return Success(Emote{Text: args})
			},
		},
		{
			Name:  "who",
			Usage: "who",
			Help:  "List connected players",
			Build: func(*Binder, string) ParseResult { return Success(Who{}) },
		},
		{
			Name: "help", Aliases: []string{"?"},
			Usage: "help",
			Help:  "List available commands",
			Build: func(*Binder, string) ParseResult { return Success(Help{}) },
		},
		{
			Name:  "quit",
			Usage: "quit",
			Help:  "Leave the game",
			Build: func(*Binder, string) ParseResult { return Success(Quit{}) },
		},
		{
			Name:  "dig",
			Usage: "dig <exit>[/<return>] <room name>",
			Help:  "Create a new room joined to this one",
			Build: buildDig,
		},
		{
			Name:  "rename",
			Usage: "rename <new name> | rename <object> = <new name>",
			Help:  "Rename this room or an object you created",
			Build: buildRename,
		},
		{
			Name: "describe", Aliases: []string{"desc"},
			Usage: "describe <text> | describe <object|me> = <text>",
			Help:  "Describe this room, an object or yourself",
			Build: buildDescribe,
		},
		{
			Name:  "recycle",
			Usage: "recycle <object>",
			Help:  "Destroy an object you created",
			Build: func(b *Binder, args string) ParseResult {
				if args == "" {
					return Usage("recycle <object>")
				}
				obj, res := b.Object(args, ScopeObjects)
				if res != nil {
					return SearchFailed(res)
				}
				return Success(Recycle{Object: obj})
			},
		},
		{
			Name:  "create",
			Usage: "create <name> [= <description>]",
			Help:  "Make a new object",
			Build: func(_ *Binder, args string) ParseResult {
				name, desc, _ := splitAssign(args)
				if name == "" {
					return Usage("create <name> [= <description>]")
				}
				return Success(Create{ObjectName: name, Description: desc})
			},
		},
		{
			Name:  "write",
			Usage: "write <object> = <text>",
			Help:  "Write on a writeable object",
			Build: func(b *Binder, args string) ParseResult {
				target, text, ok := splitAssign(args)
				if !ok || target == "" || text == "" {
					return Usage("write <object> = <text>")
				}
				obj, res := b.Object(target, ScopeObjects)
				if res != nil {
					return SearchFailed(res)
				}
				return Success(Write{Object: obj, Text: text})
			},
		},
		{
			Name:  "read",
			Usage: "read <object>",
			Help:  "Read the writing on an object",
			Build: func(b *Binder, args string) ParseResult {
				if args == "" {
					return Usage("read <object>")
				}
				obj, res := b.Object(args, ScopeObjects)
				if res != nil {
					return SearchFailed(res)
				}
				return Success(Read{Object: obj})
			},
		},
		{
			Name:  "find",
			Usage: "find <pattern>",
			Help:  "Search room and object names (* and ? wildcards)",
			Build: func(_ *Binder, args string) ParseResult {
				if args == "" {
					return Usage("find <pattern>")
				}
				return Success(Find{Pattern: args})
			},
		},
	}

	for _, action := range []Action{ActionOpen, ActionClose, ActionLock, ActionUnlock} {
		defs = append(defs, Definition{
			Name:  string(action),
			Usage: string(action) + " <object>",
			Help:  capitalize(string(action)) + " an object",
			Build: buildOperate(action),
		})
	}

	defs = append(defs, directionDefinitions()...)
	return defs
}

// directionDefinitions makes each compass direction and its abbreviation a
// verb of its own, so "n" walks north.
func directionDefinitions() []Definition {
	aliases := world.DirectionAliases()
	shorts := make([]string, 0, len(aliases))
	for short := range aliases {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	defs := make([]Definition, 0, len(shorts))
	for _, short := range shorts {
		full := aliases[short]
		defs = append(defs, Definition{
			Name:    full,
			Aliases: []string{short},
			Usage:   full,
			Help:    "Walk " + full,
			Build: func(*Binder, string) ParseResult {
				return Success(Move{Exit: full})
			},
		})
	}
	return defs
}

func buildLook(b *Binder, args string) ParseResult {
	args = strings.TrimSpace(strings.TrimPrefix(args, "at "))
	if args == "" || strings.EqualFold(args, "here") {
		return Success(Look{})
	}
	if strings.EqualFold(args, "me") {
		return Success(Look{Player: b.Actor})
	}
	res := b.Search(args, ScopeObjects|ScopePlayers)
	if res.Status != Found {
		return SearchFailed(&res)
	}
	return Success(Look{Object: res.Match.Object, Player: res.Match.Player})
}

func buildMove(_ *Binder, args string) ParseResult {
	if args == "" {
		return Usage("move <exit>")
	}
	return Success(Move{Exit: world.NormalizeExitLabel(args)})
}

func buildGive(b *Binder, args string) ParseResult {
	const usage = "give <object> to <player>"
	idx := strings.LastIndex(strings.ToLower(args), " to ")
	if idx <= 0 {
		return Usage(usage)
	}
	objName := strings.TrimSpace(args[:idx])
	playerName := strings.TrimSpace(args[idx+len(" to "):])
	if objName == "" || playerName == "" {
		return Usage(usage)
	}
	obj, res := b.Object(objName, ScopeInventory)
	if res != nil {
		return SearchFailed(res)
	}
	recipient, res := b.Player(playerName)
	if res != nil {
		return SearchFailed(res)
	}
	return Success(Give{Object: obj, Recipient: recipient})
}

func buildDig(_ *Binder, args string) ParseResult {
	const usage = "dig <exit>[/<return>] <room name>"
	exits, name, ok := strings.Cut(strings.TrimSpace(args), " ")
	name = strings.TrimSpace(name)
	if !ok || exits == "" || name == "" {
		return Usage(usage)
	}
	exit, ret, _ := strings.Cut(exits, "/")
	exit = world.NormalizeExitLabel(exit)
	if exit == "" {
		return Usage(usage)
	}
	return Success(Dig{Exit: exit, Return: world.NormalizeExitLabel(ret), RoomName: name})
}

func buildRename(b *Binder, args string) ParseResult {
	target, name, ok := splitAssign(args)
	if !ok {
		if target == "" {
			return Usage("rename <new name> | rename <object> = <new name>")
		}
		return Success(Rename{NewName: target})
	}
	if target == "" || name == "" {
		return Usage("rename <object> = <new name>")
	}
	obj, res := b.Object(target, ScopeObjects)
	if res != nil {
		return SearchFailed(res)
	}
	return Success(Rename{Object: obj, NewName: name})
}

func buildDescribe(b *Binder, args string) ParseResult {
	target, text, ok := splitAssign(args)
	if !ok {
		if target == "" {
			return Usage("describe <text> | describe <object|me> = <text>")
		}
		return Success(Describe{Text: target})
	}
	if target == "" || text == "" {
		return Usage("describe <object|me> = <text>")
	}
	if strings.EqualFold(target, "me") {
		return Success(Describe{Self: true, Text: text})
	}
	if strings.EqualFold(target, "here") {
		return Success(Describe{Text: text})
	}
	obj, res := b.Object(target, ScopeObjects)
	if res != nil {
		return SearchFailed(res)
	}
	return Success(Describe{Object: obj, Text: text})
}

func buildOperate(action Action) BuildFunc {
	return func(b *Binder, args string) ParseResult {
		if args == "" {
			return Usage(string(action) + " <object>")
		}
		obj, res := b.Object(args, ScopeObjects)
		if res != nil {
			return SearchFailed(res)
		}
		return Success(Operate{Object: obj, Action: action})
	}
}

// splitAssign splits "lhs = rhs". ok is false when there is no "=".
func splitAssign(args string) (lhs, rhs string, ok bool) {
	lhs, rhs, ok = strings.Cut(args, "=")
	return strings.TrimSpace(lhs), strings.TrimSpace(rhs), ok
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
