// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package event_test

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/world"
	"github.com/lanternmush/lantern/pkg/errutil"
)

func TestDefaultFormatters_CoverEveryKind(t *testing.T) {
	require.NoError(t, event.DefaultFormatters().Verify(event.AllKinds()))
}

func TestFormatters_VerifyReportsMissingAndUnknown(t *testing.T) {
	f := event.NewFormatters()
	require.NoError(t, f.Register(event.KindSystem, event.Format(func(e event.System) string { return e.Text }, nil)))
	require.NoError(t, f.Register("bogus", event.Same(func(e event.System) string { return e.Text })))

	err := f.Verify([]event.Kind{event.KindSystem, event.KindSaid})
	errutil.AssertErrorCode(t, err, "EVENT_FORMATTERS_INCOMPLETE")
	errutil.AssertErrorContext(t, err, "missing", []string{"said"})
	errutil.AssertErrorContext(t, err, "unknown", []string{"bogus"})
}

func TestFormatters_RegisterTwiceFails(t *testing.T) {
	f := event.NewFormatters()
	formatter := event.Format(func(e event.System) string { return e.Text }, nil)
	require.NoError(t, f.Register(event.KindSystem, formatter))
	err := f.Register(event.KindSystem, formatter)
	errutil.AssertErrorCode(t, err, "EVENT_FORMATTER_DUPLICATE")
}

func TestFormatters_RenderPerAudience(t *testing.T) {
	f := event.DefaultFormatters()

	tests := []struct {
		name         string
		ev           event.Event
		actor        string
		observer     string
		observerSeen bool
	}{
		{
			name:         "speech",
			ev:           event.Said{Speaker: "alice", Text: "hello"},
			actor:        `You say, "hello"`,
			observer:     `alice says, "hello"`,
			observerSeen: true,
		},
		{
			name:         "taking is silent to bystanders",
			ev:           event.ItemTaken{Actor: "alice", Item: "brass lamp"},
			actor:        "You take the brass lamp.",
			observerSeen: false,
		},
		{
			name:         "departure uses room narration",
			ev:           event.Departed{Actor: "alice", Exit: "north", Narration: "%s squeezes through the gap."},
			actor:        "You head north.",
			observer:     "alice squeezes through the gap.",
			observerSeen: true,
		},
		{
			name:         "departure default",
			ev:           event.Departed{Actor: "alice", Exit: "north"},
			actor:        "You head north.",
			observer:     "alice leaves north.",
			observerSeen: true,
		},
		{
			name:         "exit not found",
			ev:           event.ExitNotFound{Label: "south"},
			actor:        "You can't go south from here.",
			observerSeen: false,
		},
		{
			name:         "state change",
			ev:           event.StateChanged{Actor: "bob", Item: "chest", Verb: "close"},
			actor:        "You close the chest.",
			observer:     "bob closes the chest.",
			observerSeen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, ok := f.Render(tt.ev, event.Actor)
			require.True(t, ok)
			assert.Equal(t, tt.actor, actor)

			observer, ok := f.Render(tt.ev, event.Observer)
			assert.Equal(t, tt.observerSeen, ok)
			if tt.observerSeen {
				assert.Equal(t, tt.observer, observer)
			}
		})
	}
}

func TestFormatters_RoomDescription(t *testing.T) {
	f := event.DefaultFormatters()
	text, ok := f.Render(event.RoomDescribed{
		Name:        "Destination",
		Description: "A quiet clearing.",
		Exits:       []string{"south"},
		Objects:     []string{"brass lamp"},
		Occupants:   []string{"bob"},
	}, event.Actor)
	require.True(t, ok)
	assert.Equal(t, "Destination\nA quiet clearing.\nYou see: brass lamp.\nAlso here: bob.\nExits: south.", text)
}

func TestResult_AddAndBroadcast(t *testing.T) {
	alice, bob, carol := ulid.Make(), ulid.Make(), ulid.Make()
	said := event.Said{Speaker: "alice", Text: "hi"}

	r := event.NewResult().
		Add(alice, said).
		Broadcast([]world.PlayerID{alice, bob, carol}, said, event.Observer, alice)

	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, event.Message{Recipient: alice, Event: said, Audience: event.Actor}, msgs[0])
	assert.Equal(t, bob, msgs[1].Recipient)
	assert.Equal(t, event.Observer, msgs[1].Audience)
	assert.Equal(t, carol, msgs[2].Recipient)
}

func TestResult_BroadcastExcludesSeveral(t *testing.T) {
	a, b, c := ulid.Make(), ulid.Make(), ulid.Make()
	r := event.NewResult().Broadcast([]world.PlayerID{a, b, c}, event.System{Text: "x"}, event.Observer, a, c)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, b, r.Messages()[0].Recipient)
}

func TestResult_FollowUpsAndMerge(t *testing.T) {
	actor := ulid.Make()
	first := event.NewResult().Follow(actor, "look")
	second := event.Reply(actor, event.System{Text: "done"}).Follow(actor, "inventory")

	first.Merge(second).Merge(nil)

	assert.Equal(t, []event.FollowUp{{Actor: actor, Input: "look"}, {Actor: actor, Input: "inventory"}}, first.FollowUps())
	assert.Equal(t, 1, first.Len())
}

func TestResult_NilIsEmpty(t *testing.T) {
	var r *event.Result
	assert.Empty(t, r.Messages())
	assert.Empty(t, r.FollowUps())
	assert.Equal(t, 0, r.Len())
}

func TestDescribeRoom(t *testing.T) {
	w := world.New()
	room, err := world.NewRoomWithID("hall", "Hall", "A long hall.")
	require.NoError(t, err)
	require.NoError(t, w.AddRoom(room))
	require.NoError(t, w.SetExit("hall", "east", "hall"))

	lamp, err := world.NewObjectWithID("lamp", "lamp", "")
	require.NoError(t, err)
	lamp.LocationID = &room.ID
	require.NoError(t, w.AddObject(lamp))

	statue, err := world.NewObjectWithID("statue", "statue", "")
	require.NoError(t, err)
	statue.Flags = world.FlagScenery
	statue.LocationID = &room.ID
	require.NoError(t, w.AddObject(statue))

	alice, err := world.NewPlayer("alice", "")
	require.NoError(t, err)
	bob, err := world.NewPlayer("bob", "")
	require.NoError(t, err)
	require.NoError(t, w.AddPlayer(alice, "hall", nil))
	require.NoError(t, w.AddPlayer(bob, "hall", nil))

	view := event.DescribeRoom(w, room, alice.ID)
	assert.Equal(t, []string{"lamp"}, view.Objects)
	assert.Equal(t, []string{"bob"}, view.Occupants)
	assert.Equal(t, []string{"east"}, view.Exits)
}
