// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package event

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/oops"
)

// Formatter renders one kind of event. Observer may report false to keep the
// event silent to bystanders.
type Formatter interface {
	Actor(ev Event) string
	Observer(ev Event) (string, bool)
}

type typedFormatter[E Event] struct {
	actor    func(E) string
	observer func(E) (string, bool)
}

func (f typedFormatter[E]) Actor(ev Event) string {
	e, ok := ev.(E)
	if !ok {
		return ""
	}
	return f.actor(e)
}

func (f typedFormatter[E]) Observer(ev Event) (string, bool) {
	e, ok := ev.(E)
	if !ok || f.observer == nil {
		return "", false
	}
	return f.observer(e)
}

// Format builds a Formatter for event type E. A nil observer makes the event
// actor-only.
func Format[E Event](actor func(E) string, observer func(E) (string, bool)) Formatter {
	return typedFormatter[E]{actor: actor, observer: observer}
}

// Same renders E identically for actor and observers.
func Same[E Event](render func(E) string) Formatter {
	return Format(render, func(e E) (string, bool) { return render(e), true })
}

// Formatters maps each event kind to its formatter.
type Formatters struct {
	byKind map[Kind]Formatter
}

// NewFormatters returns an empty registry.
func NewFormatters() *Formatters {
	return &Formatters{byKind: make(map[Kind]Formatter)}
}

// Register binds a formatter to a kind. A kind can only be bound once.
func (f *Formatters) Register(kind Kind, formatter Formatter) error {
	if _, exists := f.byKind[kind]; exists {
		return oops.Code("EVENT_FORMATTER_DUPLICATE").With("kind", string(kind)).Errorf("formatter already registered")
	}
	f.byKind[kind] = formatter
	return nil
}

// Render returns the text of ev for the given audience. The bool is false when
// the event has nothing to show that audience.
func (f *Formatters) Render(ev Event, audience Audience) (string, bool) {
	formatter, ok := f.byKind[ev.Kind()]
	if !ok {
		return "", false
	}
	if audience == Observer {
		return formatter.Observer(ev)
	}
	return formatter.Actor(ev), true
}

// Verify checks that every kind has a formatter and no formatter is bound to
// an unknown kind.
func (f *Formatters) Verify(kinds []Kind) error {
	var missing, extra []string
	for _, k := range kinds {
		if _, ok := f.byKind[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	for k := range f.byKind {
		if !slices.Contains(kinds, k) {
			extra = append(extra, string(k))
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.Sort(missing)
		slices.Sort(extra)
		return oops.Code("EVENT_FORMATTERS_INCOMPLETE").
			With("missing", missing).
			With("unknown", extra).
			Errorf("formatter registry does not match event kinds")
	}
	return nil
}

// DefaultFormatters returns the built-in formatter for every kind in AllKinds.
func DefaultFormatters() *Formatters {
	f := NewFormatters()
	must := func(kind Kind, formatter Formatter) {
		if err := f.Register(kind, formatter); err != nil {
			panic(err)
		}
	}

	must(KindDeparted, Format(
		func(e Departed) string { return fmt.Sprintf("You head %s.", e.Exit) },
		func(e Departed) (string, bool) {
			if e.Narration != "" {
				return narrate(e.Narration, e.Actor), true
			}
			return fmt.Sprintf("%s leaves %s.", e.Actor, e.Exit), true
		}))
	must(KindArrived, Format(
		func(e Arrived) string { return fmt.Sprintf("You arrive at %s.", e.Room) },
		func(e Arrived) (string, bool) {
			if e.Narration != "" {
				return narrate(e.Narration, e.Actor), true
			}
			return fmt.Sprintf("%s arrives.", e.Actor), true
		}))
	must(KindRoomDescribed, Format(renderRoom, nil))
	must(KindExitNotFound, Format(
		func(e ExitNotFound) string { return fmt.Sprintf("You can't go %s from here.", e.Label) }, nil))
	must(KindItemTaken, Format(
		func(e ItemTaken) string { return fmt.Sprintf("You take the %s.", e.Item) }, nil))
	must(KindItemDropped, Format(
		func(e ItemDropped) string { return fmt.Sprintf("You drop the %s.", e.Item) },
		func(e ItemDropped) (string, bool) { return fmt.Sprintf("%s drops the %s.", e.Actor, e.Item), true }))
	must(KindItemGiven, Format(
		func(e ItemGiven) string { return fmt.Sprintf("You give the %s to %s.", e.Item, e.Receiver) },
		func(e ItemGiven) (string, bool) {
			return fmt.Sprintf("%s gives the %s to %s.", e.Giver, e.Item, e.Receiver), true
		}))
	must(KindItemReceived, Format(
		func(e ItemReceived) string { return fmt.Sprintf("%s gives you the %s.", e.Giver, e.Item) }, nil))
	must(KindInventoryListed, Format(
		func(e InventoryListed) string {
			if len(e.Items) == 0 {
				return "You are empty-handed."
			}
			return "You are carrying:\n  " + strings.Join(e.Items, "\n  ")
		}, nil))
	must(KindSaid, Format(
		func(e Said) string { return fmt.Sprintf("You say, %q", e.Text) },
		func(e Said) (string, bool) { return fmt.Sprintf("%s says, %q", e.Speaker, e.Text), true }))
	must(KindEmoted, Same(func(e Emoted) string { return e.Actor + " " + e.Text }))
	must(KindSystem, Format(func(e System) string { return e.Text }, nil))
	must(KindNotUnderstood, Format(
		func(e NotUnderstood) string { return fmt.Sprintf("I don't understand %q. Try 'help'.", e.Verb) }, nil))
	must(KindTargetNotFound, Format(
		func(e TargetNotFound) string { return fmt.Sprintf("You don't see %q here.", e.Name) }, nil))
	must(KindAmbiguousTarget, Format(
		func(e AmbiguousTarget) string {
			options := make([]string, len(e.Candidates))
			for i, c := range e.Candidates {
				options[i] = fmt.Sprintf("%d.%s", i+1, c)
			}
			return fmt.Sprintf("Which %q do you mean? %s", e.Name, strings.Join(options, ", "))
		}, nil))
	must(KindIndexOutOfRange, Format(
		func(e IndexOutOfRange) string {
			return fmt.Sprintf("There %s only %d %q here.", pluralVerb(e.Count), e.Count, e.Name)
		}, nil))
	must(KindPermissionDenied, Format(
		func(e PermissionDenied) string { return fmt.Sprintf("You are not allowed to %s %s.", e.Action, e.Target) }, nil))
	must(KindRenamed, Format(
		func(e Renamed) string { return fmt.Sprintf("You rename %s to %s.", e.OldName, e.NewName) },
		func(e Renamed) (string, bool) {
			return fmt.Sprintf("%s renames %s to %s.", e.Actor, e.OldName, e.NewName), true
		}))
	must(KindDescribed, Format(
		func(e Described) string { return fmt.Sprintf("Description of %s updated.", e.Target) }, nil))
	must(KindRoomDug, Format(
		func(e RoomDug) string {
			return fmt.Sprintf("You dig %s into %s. The way back is %s.", e.Exit, e.Room, e.Return)
		},
		func(e RoomDug) (string, bool) { return fmt.Sprintf("%s opens a new way %s.", e.Actor, e.Exit), true }))
	must(KindObjectCreated, Format(
		func(e ObjectCreated) string { return fmt.Sprintf("You create %s.", e.Item) },
		func(e ObjectCreated) (string, bool) { return fmt.Sprintf("%s creates %s.", e.Actor, e.Item), true }))
	must(KindObjectRecycled, Format(
		func(e ObjectRecycled) string { return fmt.Sprintf("You recycle %s.", e.Item) },
		func(e ObjectRecycled) (string, bool) { return fmt.Sprintf("%s vanishes.", e.Item), true }))
	must(KindObjectSpawned, Same(func(e ObjectSpawned) string { return fmt.Sprintf("%s appears.", e.Item) }))
	must(KindTextWritten, Format(
		func(e TextWritten) string { return fmt.Sprintf("You write on the %s.", e.Item) },
		func(e TextWritten) (string, bool) { return fmt.Sprintf("%s writes on the %s.", e.Actor, e.Item), true }))
	must(KindTextRead, Format(
		func(e TextRead) string {
			if e.Text == "" {
				return fmt.Sprintf("Nothing is written on the %s.", e.Item)
			}
			return fmt.Sprintf("The %s reads:\n%s", e.Item, e.Text)
		},
		func(e TextRead) (string, bool) { return fmt.Sprintf("%s reads the %s.", e.Actor, e.Item), true }))
	must(KindObjectExamined, Format(
		func(e ObjectExamined) string {
			var b strings.Builder
			b.WriteString(e.Name)
			if e.Description != "" {
				b.WriteString("\n" + e.Description)
			}
			if len(e.States) > 0 {
				b.WriteString("\nIt is " + strings.Join(e.States, " and ") + ".")
			}
			return b.String()
		}, nil))
	must(KindPlayerExamined, Format(
		func(e PlayerExamined) string {
			desc := e.Description
			if desc == "" {
				desc = "You see nothing special."
			}
			return fmt.Sprintf("%s\n%s", e.Name, desc)
		}, nil))
	must(KindStateChanged, Format(
		func(e StateChanged) string { return fmt.Sprintf("You %s the %s.", e.Verb, e.Item) },
		func(e StateChanged) (string, bool) {
			return fmt.Sprintf("%s %ss the %s.", e.Actor, e.Verb, e.Item), true
		}))
	must(KindPlayerConnected, Format(
		func(e PlayerConnected) string { return fmt.Sprintf("Welcome, %s.", e.Name) },
		func(e PlayerConnected) (string, bool) { return fmt.Sprintf("%s has arrived.", e.Name), true }))
	must(KindPlayerResumed, Format(
		func(PlayerResumed) string { return "Reconnected." },
		func(e PlayerResumed) (string, bool) { return fmt.Sprintf("%s has reconnected.", e.Name), true }))
	must(KindPlayerLinkless, Format(
		func(PlayerLinkless) string { return "Connection lost." },
		func(e PlayerLinkless) (string, bool) { return fmt.Sprintf("%s stares blankly ahead.", e.Name), true }))
	must(KindPlayerFaded, Same(func(e PlayerFaded) string { return fmt.Sprintf("%s fades away.", e.Name) }))
	must(KindPlayerQuit, Format(
		func(PlayerQuit) string { return "Goodbye." },
		func(e PlayerQuit) (string, bool) { return fmt.Sprintf("%s has left the world.", e.Name), true }))
	must(KindWhoListed, Format(
		func(e WhoListed) string {
			return fmt.Sprintf("Players online (%d):\n  %s", len(e.Names), strings.Join(e.Names, "\n  "))
		}, nil))
	must(KindFindResults, Format(
		func(e FindResults) string {
			if len(e.Matches) == 0 {
				return fmt.Sprintf("Nothing matches %q.", e.Pattern)
			}
			return fmt.Sprintf("Matches for %q:\n  %s", e.Pattern, strings.Join(e.Matches, "\n  "))
		}, nil))
	must(KindScriptOutput, Same(func(e ScriptOutput) string { return e.Text }))
	must(KindClockChanged, Same(func(e ClockChanged) string { return clockNarration(e.Phase) }))
	must(KindHelpShown, Format(
		func(e HelpShown) string { return "Commands: " + strings.Join(e.Verbs, ", ") }, nil))
	must(KindSessionIssued, Format(
		func(e SessionIssued) string {
			return fmt.Sprintf("Your session token is %s. Use 'resume %s' to reconnect.", e.Token, e.Token)
		}, nil))
	must(KindCommandFailed, Format(
		func(CommandFailed) string { return "Something went wrong. Please try again." }, nil))
	must(KindRateLimited, Format(
		func(e RateLimited) string {
			return fmt.Sprintf("You're doing that too quickly. Wait %.1fs.", e.RetryAfter.Seconds())
		}, nil))
	return f
}

func renderRoom(e RoomDescribed) string {
	var b strings.Builder
	b.WriteString(e.Name)
	if e.Description != "" {
		b.WriteString("\n" + e.Description)
	}
	if len(e.Objects) > 0 {
		b.WriteString("\nYou see: " + strings.Join(e.Objects, ", ") + ".")
	}
	if len(e.Occupants) > 0 {
		b.WriteString("\nAlso here: " + strings.Join(e.Occupants, ", ") + ".")
	}
	if len(e.Exits) == 0 {
		b.WriteString("\nThere are no obvious exits.")
	} else {
		b.WriteString("\nExits: " + strings.Join(e.Exits, ", ") + ".")
	}
	return b.String()
}

func narrate(template, actor string) string {
	if strings.Contains(template, "%s") {
		return strings.ReplaceAll(template, "%s", actor)
	}
	return actor + " " + template
}

func pluralVerb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

func clockNarration(phase string) string {
	switch phase {
	case "dawn":
		return "The sky brightens as the sun rises."
	case "day":
		return "The sun climbs high overhead."
	case "dusk":
		return "Shadows lengthen as the sun sets."
	case "night":
		return "Night falls."
	default:
		return "Time passes."
	}
}
