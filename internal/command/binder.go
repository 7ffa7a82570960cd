// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"strconv"
	"strings"

	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/world"
)

// Scope selects where the Binder looks for a name.
type Scope uint8

// Search scopes. They are searched in this order when combined.
const (
	ScopeInventory Scope = 1 << iota
	ScopeRoom
	ScopePlayers
	ScopeExits

	ScopeObjects = ScopeInventory | ScopeRoom
	ScopeAll     = ScopeInventory | ScopeRoom | ScopePlayers | ScopeExits
)

// SearchStatus is the outcome of a name search.
type SearchStatus uint8

// Search outcomes.
const (
	Found SearchStatus = iota
	NotFound
	Ambiguous
	IndexOutOfRange
)

func (s SearchStatus) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Ambiguous:
		return "ambiguous"
	case IndexOutOfRange:
		return "index_out_of_range"
	default:
		return "unknown"
	}
}

// Match is one entity a name resolved to. Exactly one field is set.
type Match struct {
	Object *world.Object
	Player *world.Player
	Exit   string
}

// Label is the display name of the match.
func (m Match) Label() string {
	switch {
	case m.Object != nil:
		return m.Object.Name
	case m.Player != nil:
		return m.Player.Username
	default:
		return m.Exit
	}
}

// SearchResult is what Binder.Search returns.
type SearchResult struct {
	Status     SearchStatus
	Match      Match
	Candidates []Match
	Name       string
	Index      int
}

// Failure converts an unsuccessful search into the event shown to the actor.
func (r SearchResult) Failure() event.Event {
	switch r.Status {
	case Ambiguous:
		names := make([]string, len(r.Candidates))
		for i, c := range r.Candidates {
			names[i] = c.Label()
		}
		return event.AmbiguousTarget{Name: r.Name, Candidates: names}
	case IndexOutOfRange:
		return event.IndexOutOfRange{Name: r.Name, Index: r.Index, Count: len(r.Candidates)}
	default:
		return event.TargetNotFound{Name: r.Name}
	}
}

// Binder resolves free-text names against what the actor can reach.
type Binder struct {
	World *world.World
	Actor *world.Player
	Room  *world.Room
}

// NewBinder creates a binder for actor in their current room.
func NewBinder(w *world.World, actor *world.Player) *Binder {
	room, _ := w.PlayerRoom(actor.ID)
	return &Binder{World: w, Actor: actor, Room: room}
}

// Search resolves query within scopes. A query of the form "N.name" selects
// the Nth match (1-based) instead of reporting ambiguity.
func (b *Binder) Search(query string, scopes Scope) SearchResult {
	name, index := splitIndex(strings.TrimSpace(query))
	res := SearchResult{Name: name, Index: index}
	if name == "" {
		res.Status = NotFound
		return res
	}

	candidates := b.candidates(name, scopes)
	res.Candidates = candidates

	switch {
	case index > 0 && index <= len(candidates):
		res.Status = Found
		res.Match = candidates[index-1]
	case index > 0:
		res.Status = IndexOutOfRange
	case len(candidates) == 0:
		res.Status = NotFound
	case len(candidates) == 1:
		res.Status = Found
		res.Match = candidates[0]
	default:
		if exact := exactMatches(candidates, name); len(exact) == 1 {
			res.Status = Found
			res.Match = exact[0]
			return res
		}
		res.Status = Ambiguous
	}
	return res
}

// Object resolves query to an object within scopes.
func (b *Binder) Object(query string, scopes Scope) (*world.Object, *SearchResult) {
	res := b.Search(query, scopes&ScopeObjects)
	if res.Status != Found {
		return nil, &res
	}
	return res.Match.Object, nil
}

// Player resolves query to a player in the actor's room.
func (b *Binder) Player(query string) (*world.Player, *SearchResult) {
	res := b.Search(query, ScopePlayers)
	if res.Status != Found {
		return nil, &res
	}
	return res.Match.Player, nil
}

func (b *Binder) candidates(name string, scopes Scope) []Match {
	var out []Match
	if scopes&ScopeInventory != 0 {
		for _, o := range b.World.InventoryObjects(b.Actor.ID) {
			if o.MatchesName(name) {
				out = append(out, Match{Object: o})
			}
		}
	}
	if b.Room == nil {
		return out
	}
	if scopes&ScopeRoom != 0 {
		for _, o := range b.World.RoomObjects(b.Room.ID) {
			if o.MatchesName(name) {
				out = append(out, Match{Object: o})
			}
		}
	}
	if scopes&ScopePlayers != 0 {
		for _, p := range b.World.OccupantsOf(b.Room.ID) {
			if p.MatchesName(name) {
				out = append(out, Match{Player: p})
			}
		}
	}
	if scopes&ScopeExits != 0 {
		if _, ok := b.Room.Exit(name); ok {
			out = append(out, Match{Exit: world.NormalizeExitLabel(name)})
		}
	}
	return out
}

func exactMatches(candidates []Match, name string) []Match {
	var out []Match
	for _, c := range candidates {
		if strings.EqualFold(c.Label(), name) {
			out = append(out, c)
		}
	}
	return out
}

// splitIndex parses "2.lamp" into ("lamp", 2). Without a valid prefix the
// index is 0.
func splitIndex(query string) (string, int) {
	dot := strings.IndexByte(query, '.')
	if dot <= 0 {
		return query, 0
	}
	n, err := strconv.Atoi(query[:dot])
	if err != nil || n <= 0 {
		return query, 0
	}
	return strings.TrimSpace(query[dot+1:]), n
}
