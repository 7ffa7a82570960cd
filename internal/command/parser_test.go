// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/pkg/errutil"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		input    string
		wantVerb string
		wantArgs string
	}{
		{"look", "look", ""},
		{"  LOOK  ", "look", ""},
		{"say hello   world", "say", "hello   world"},
		{"'hello there", "say", "hello there"},
		{"\"hi", "say", "hi"},
		{":waves.", "emote", "waves."},
		{"Take\tbrass lamp", "take", "brass lamp"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := command.Split(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerb, parsed.Verb)
			assert.Equal(t, tt.wantArgs, parsed.Args)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	_, err := command.Split("   ")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, command.CodeEmptyInput)
}

func newParser(t *testing.T) *command.Parser {
	t.Helper()
	reg, err := command.DefaultRegistry()
	require.NoError(t, err)
	return command.NewParser(reg)
}

func TestParser_Parse(t *testing.T) {
	f := newFixture(t)
	p := newParser(t)

	tests := []struct {
		input string
		want  command.Command
	}{
		{"look", command.Look{}},
		{"l at bob", command.Look{Player: f.bob}},
		{"look brass", command.Look{Object: f.lamp}},
		{"n", command.Move{Exit: "north"}},
		{"go N", command.Move{Exit: "north"}},
		{"get 2.lamp", command.Take{Object: f.lamp2}},
		{"drop note", command.Drop{Object: f.note}},
		{"give note to bob", command.Give{Object: f.note, Recipient: f.bob}},
		{"i", command.Inventory{}},
		{"'hello", command.Say{Text: "hello"}},
		{":waves", command.Emote{Text: "waves"}},
		{"dig north/south Quiet Garden", command.Dig{Exit: "north", Return: "south", RoomName: "Quiet Garden"}},
		{"dig portal Vault", command.Dig{Exit: "portal", RoomName: "Vault"}},
		{"rename Great Hall", command.Rename{NewName: "Great Hall"}},
		{"rename brass = old lamp", command.Rename{Object: f.lamp, NewName: "old lamp"}},
		{"describe me = Tall.", command.Describe{Self: true, Text: "Tall."}},
		{"describe Echoing.", command.Describe{Text: "Echoing."}},
		{"create box = A wooden box.", command.Create{ObjectName: "box", Description: "A wooden box."}},
		{"write note = meet at noon", command.Write{Object: f.note, Text: "meet at noon"}},
		{"read note", command.Read{Object: f.note}},
		{"unlock brass", command.Operate{Object: f.lamp, Action: command.ActionUnlock}},
		{"find *lamp", command.Find{Pattern: "*lamp"}},
		{"quit", command.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := p.Parse(f.world, f.alice, tt.input)
			require.Equal(t, command.ParseSuccess, res.Status, "failure: %#v", res.Failure)
			assert.Equal(t, tt.want, res.Command)
		})
	}
}

func TestParser_ParseFailures(t *testing.T) {
	f := newFixture(t)
	p := newParser(t)

	tests := []struct {
		input      string
		wantStatus command.ParseStatus
		wantEvent  event.Event
	}{
		{"dance", command.ParseNotFound, event.NotUnderstood{Verb: "dance"}},
		{"take lamp", command.ParseError, event.AmbiguousTarget{Name: "lamp", Candidates: []string{"brass lamp", "tin lamp"}}},
		{"take sword", command.ParseError, event.TargetNotFound{Name: "sword"}},
		{"give note", command.ParseError, event.System{Text: "Usage: give <object> to <player>"}},
		{"drop brass", command.ParseError, event.TargetNotFound{Name: "brass"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := p.Parse(f.world, f.alice, tt.input)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Nil(t, res.Command)
			assert.Equal(t, tt.wantEvent, res.Failure)
		})
	}
}

func TestParser_ParseScriptedVerb(t *testing.T) {
	f := newFixture(t)
	f.lamp.Verbs = map[string]string{"rub": `tell("The lamp glows.")`}
	f.note.Verbs = map[string]string{"rub": `tell("Paper rustles.")`}
	p := newParser(t)

	res := p.Parse(f.world, f.alice, "rub it gently")
	require.Equal(t, command.ParseSuccess, res.Status)
	assert.Equal(t, command.InvokeVerb{Object: f.note, Verb: "rub", Args: "it gently"}, res.Command)
}

func TestParser_BuiltinsShadowScriptedVerbs(t *testing.T) {
	f := newFixture(t)
	f.lamp.Verbs = map[string]string{"look": `tell("nope")`}
	p := newParser(t)

	res := p.Parse(f.world, f.alice, "look")
	require.Equal(t, command.ParseSuccess, res.Status)
	assert.Equal(t, command.Look{}, res.Command)
}
