// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"strings"

	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/world"
)

// ParsedInput is raw input split into verb and argument text.
type ParsedInput struct {
	Verb string // lower-cased first whitespace-delimited token
	Args string // unparsed argument string (preserves internal whitespace)
	Raw  string // original input
}

// prefixVerbs lets a leading punctuation mark stand for a verb: 'hello, :waves.
var prefixVerbs = map[byte]string{
	'\'': "say",
	'"':  "say",
	':':  "emote",
}

// Split separates raw input into verb and arguments.
func Split(input string) (*ParsedInput, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code(CodeEmptyInput).Errorf("no command provided")
	}

	if verb, ok := prefixVerbs[trimmed[0]]; ok {
		return &ParsedInput{
			Verb: verb,
			Args: strings.TrimLeft(trimmed[1:], " \t"),
			Raw:  input,
		}, nil
	}

	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return &ParsedInput{Verb: strings.ToLower(trimmed), Raw: input}, nil
	}

	return &ParsedInput{
		Verb: strings.ToLower(trimmed[:idx]),
		Args: strings.TrimLeft(trimmed[idx+1:], " \t"),
		Raw:  input,
	}, nil
}

// ParseStatus is the outcome of parsing.
type ParseStatus uint8

// Parse outcomes.
const (
	// ParseSuccess means Command is set.
	ParseSuccess ParseStatus = iota
	// ParseError means the verb was known but the arguments did not bind.
	ParseError
	// ParseNotFound means neither a definition nor a scripted verb matched.
	ParseNotFound
)

func (s ParseStatus) String() string {
	switch s {
	case ParseSuccess:
		return "success"
	case ParseError:
		return "error"
	case ParseNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ParseResult is what Parser.Parse returns. On failure, Failure is the event
// shown to the actor.
type ParseResult struct {
	Status  ParseStatus
	Command Command
	Failure event.Event
}

// Success wraps a built command.
func Success(cmd Command) ParseResult {
	return ParseResult{Status: ParseSuccess, Command: cmd}
}

// Failed reports a binding or argument failure.
func Failed(ev event.Event) ParseResult {
	return ParseResult{Status: ParseError, Failure: ev}
}

// Usage reports a malformed argument list.
func Usage(def string) ParseResult {
	return Failed(event.System{Text: "Usage: " + def})
}

// SearchFailed converts a failed search into a parse failure.
func SearchFailed(res *SearchResult) ParseResult {
	return Failed(res.Failure())
}

// Parser resolves input against a registry and the actor's surroundings.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse turns input from actor into a command. Failures never return an
// error; they come back as a status with an event for the actor.
func (p *Parser) Parse(w *world.World, actor *world.Player, input string) ParseResult {
	parsed, err := Split(input)
	if err != nil {
		return Failed(event.System{Text: "Say something? Try 'help'."})
	}

	binder := NewBinder(w, actor)
	if def, ok := p.registry.Get(parsed.Verb); ok {
		return def.Build(binder, parsed.Args)
	}

	if obj := findScriptedVerb(binder, parsed.Verb); obj != nil {
		return Success(InvokeVerb{Object: obj, Verb: parsed.Verb, Args: parsed.Args})
	}

	return ParseResult{Status: ParseNotFound, Failure: event.NotUnderstood{Verb: parsed.Verb}}
}

// findScriptedVerb looks for verb on carried objects first, then on objects
// in the room.
func findScriptedVerb(b *Binder, verb string) *world.Object {
	for _, o := range b.World.InventoryObjects(b.Actor.ID) {
		if _, ok := o.Verb(verb); ok {
			return o
		}
	}
	if b.Room == nil {
		return nil
	}
	for _, o := range b.World.RoomObjects(b.Room.ID) {
		if _, ok := o.Verb(verb); ok {
			return o
		}
	}
	return nil
}
