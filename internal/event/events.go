// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package event

import "time"

// Event kinds.
const (
	KindDeparted         Kind = "departed"
	KindArrived          Kind = "arrived"
	KindRoomDescribed    Kind = "room_described"
	KindExitNotFound     Kind = "exit_not_found"
	KindItemTaken        Kind = "item_taken"
	KindItemDropped      Kind = "item_dropped"
	KindItemGiven        Kind = "item_given"
	KindItemReceived     Kind = "item_received"
	KindInventoryListed  Kind = "inventory_listed"
	KindSaid             Kind = "said"
	KindEmoted           Kind = "emoted"
	KindSystem           Kind = "system"
	KindNotUnderstood    Kind = "not_understood"
	KindTargetNotFound   Kind = "target_not_found"
	KindAmbiguousTarget  Kind = "ambiguous_target"
	KindIndexOutOfRange  Kind = "index_out_of_range"
	KindPermissionDenied Kind = "permission_denied"
	KindRenamed          Kind = "renamed"
	KindDescribed        Kind = "described"
	KindRoomDug          Kind = "room_dug"
	KindObjectCreated    Kind = "object_created"
	KindObjectRecycled   Kind = "object_recycled"
	KindObjectSpawned    Kind = "object_spawned"
	KindTextWritten      Kind = "text_written"
	KindTextRead         Kind = "text_read"
	KindObjectExamined   Kind = "object_examined"
	KindPlayerExamined   Kind = "player_examined"
	KindStateChanged     Kind = "state_changed"
	KindPlayerConnected  Kind = "player_connected"
	KindPlayerResumed    Kind = "player_resumed"
	KindPlayerLinkless   Kind = "player_linkless"
	KindPlayerFaded      Kind = "player_faded"
	KindPlayerQuit       Kind = "player_quit"
	KindWhoListed        Kind = "who_listed"
	KindFindResults      Kind = "find_results"
	KindScriptOutput     Kind = "script_output"
	KindClockChanged     Kind = "clock_changed"
	KindHelpShown        Kind = "help_shown"
	KindSessionIssued    Kind = "session_issued"
	KindCommandFailed    Kind = "command_failed"
	KindRateLimited      Kind = "rate_limited"
)

// AllKinds lists every event kind. Each must have exactly one formatter.
func AllKinds() []Kind {
	return []Kind{
		KindDeparted, KindArrived, KindRoomDescribed, KindExitNotFound,
		KindItemTaken, KindItemDropped, KindItemGiven, KindItemReceived, KindInventoryListed,
		KindSaid, KindEmoted, KindSystem, KindNotUnderstood,
		KindTargetNotFound, KindAmbiguousTarget, KindIndexOutOfRange, KindPermissionDenied,
		KindRenamed, KindDescribed, KindRoomDug, KindObjectCreated, KindObjectRecycled, KindObjectSpawned,
		KindTextWritten, KindTextRead, KindObjectExamined, KindPlayerExamined, KindStateChanged,
		KindPlayerConnected, KindPlayerResumed, KindPlayerLinkless, KindPlayerFaded, KindPlayerQuit,
		KindWhoListed, KindFindResults, KindScriptOutput, KindClockChanged, KindHelpShown,
		KindSessionIssued, KindCommandFailed, KindRateLimited,
	}
}

// Departed is emitted when a player leaves a room through an exit.
type Departed struct {
	Actor string
	Exit  string
	// Narration overrides the observer text; "%s" is replaced by the actor.
	Narration string
}

// Arrived is emitted when a player enters a room.
type Arrived struct {
	Actor     string
	Room      string
	Narration string
}

// RoomDescribed carries what a viewer sees of a room.
type RoomDescribed struct {
	Name        string
	Description string
	Exits       []string
	Objects     []string
	Occupants   []string
}

// ExitNotFound is emitted when a move names an exit the room lacks.
type ExitNotFound struct {
	Label string
}

// ItemTaken is emitted when a player picks an object up.
type ItemTaken struct {
	Actor string
	Item  string
}

// ItemDropped is emitted when a player puts an object down.
type ItemDropped struct {
	Actor string
	Item  string
}

// ItemGiven is emitted to the giver and bystanders when an object changes hands.
type ItemGiven struct {
	Giver    string
	Receiver string
	Item     string
}

// ItemReceived is emitted to the receiver of a gift.
type ItemReceived struct {
	Giver string
	Item  string
}

// InventoryListed lists what a player carries.
type InventoryListed struct {
	Items []string
}

// Said is speech heard in a room.
type Said struct {
	Speaker string
	Text    string
}

// Emoted is a free-form action.
type Emoted struct {
	Actor string
	Text  string
}

// System is a plain message to the actor.
type System struct {
	Text string
}

// NotUnderstood is emitted when no command or scripted verb matches.
type NotUnderstood struct {
	Verb string
}

// TargetNotFound is emitted when a name matches nothing in scope.
type TargetNotFound struct {
	Name string
}

// AmbiguousTarget is emitted when a name matches several things.
type AmbiguousTarget struct {
	Name       string
	Candidates []string
}

// IndexOutOfRange is emitted when "N.name" asks for a match that does not exist.
type IndexOutOfRange struct {
	Name  string
	Index int
	Count int
}

// PermissionDenied is emitted when the actor may not modify a target.
type PermissionDenied struct {
	Action string
	Target string
}

// Renamed is emitted when a room or object gets a new name.
type Renamed struct {
	Actor   string
	OldName string
	NewName string
}

// Described is emitted when a room or object gets a new description.
type Described struct {
	Target string
}

// RoomDug is emitted when a player digs a new room.
type RoomDug struct {
	Actor  string
	Room   string
	Exit   string
	Return string
}

// ObjectCreated is emitted when a player creates an object.
type ObjectCreated struct {
	Actor string
	Item  string
}

// ObjectRecycled is emitted when a player destroys an object.
type ObjectRecycled struct {
	Actor string
	Item  string
}

// ObjectSpawned is emitted when a scheduled spawn places an object in a room.
type ObjectSpawned struct {
	Item string
}

// TextWritten is emitted when a player writes on an object.
type TextWritten struct {
	Actor string
	Item  string
}

// TextRead is emitted when a player reads an object.
type TextRead struct {
	Actor string
	Item  string
	Text  string
}

// ObjectExamined describes an object to the viewer.
type ObjectExamined struct {
	Name        string
	Description string
	States      []string
}

// PlayerExamined describes a player to the viewer.
type PlayerExamined struct {
	Name        string
	Description string
	Idle        time.Duration
}

// StateChanged is emitted by open, close, lock and unlock.
type StateChanged struct {
	Actor string
	Item  string
	// Verb is the bare verb: "open", "close", "lock" or "unlock".
	Verb string
}

// PlayerConnected is emitted when a player enters the world.
type PlayerConnected struct {
	Name string
}

// PlayerResumed is emitted when a player reconnects within the grace period.
type PlayerResumed struct {
	Name string
}

// PlayerLinkless is emitted when a player's connection drops.
type PlayerLinkless struct {
	Name string
}

// PlayerFaded is emitted when a disconnected player's grace period expires.
type PlayerFaded struct {
	Name string
}

// PlayerQuit is emitted when a player logs out.
type PlayerQuit struct {
	Name string
}

// WhoListed lists connected players.
type WhoListed struct {
	Names []string
}

// FindResults lists matches for a find pattern.
type FindResults struct {
	Pattern string
	Matches []string
}

// ScriptOutput is text produced by a scripted verb.
type ScriptOutput struct {
	Text string
}

// ClockChanged announces a new phase of the day.
type ClockChanged struct {
	Phase string
}

// HelpShown lists the available verbs.
type HelpShown struct {
	Verbs []string
}

// SessionIssued tells a player their resume token.
type SessionIssued struct {
	Token string
}

// CommandFailed is the generic failure shown when a handler faults.
type CommandFailed struct{}

// RateLimited is emitted when a player sends commands too quickly.
type RateLimited struct {
	RetryAfter time.Duration
}

// Kind implements Event.
func (Departed) Kind() Kind { return KindDeparted }

// Kind implements Event.
func (Arrived) Kind() Kind { return KindArrived }

// Kind implements Event.
func (RoomDescribed) Kind() Kind { return KindRoomDescribed }

// Kind implements Event.
func (ExitNotFound) Kind() Kind { return KindExitNotFound }

// Kind implements Event.
func (ItemTaken) Kind() Kind { return KindItemTaken }

// Kind implements Event.
func (ItemDropped) Kind() Kind { return KindItemDropped }

// Kind implements Event.
func (ItemGiven) Kind() Kind { return KindItemGiven }

// Kind implements Event.
func (ItemReceived) Kind() Kind { return KindItemReceived }

// Kind implements Event.
func (InventoryListed) Kind() Kind { return KindInventoryListed }

// Kind implements Event.
func (Said) Kind() Kind { return KindSaid }

// Kind implements Event.
func (Emoted) Kind() Kind { return KindEmoted }

// Kind implements Event.
func (System) Kind() Kind { return KindSystem }

// Kind implements Event.
func (NotUnderstood) Kind() Kind { return KindNotUnderstood }

// Kind implements Event.
func (TargetNotFound) Kind() Kind { return KindTargetNotFound }

// Kind implements Event.
func (AmbiguousTarget) Kind() Kind { return KindAmbiguousTarget }

// Kind implements Event.
func (IndexOutOfRange) Kind() Kind { return KindIndexOutOfRange }

// Kind implements Event.
func (PermissionDenied) Kind() Kind { return KindPermissionDenied }

// Kind implements Event.
func (Renamed) Kind() Kind { return KindRenamed }

// Kind implements Event.
func (Described) Kind() Kind { return KindDescribed }

// Kind implements Event.
func (RoomDug) Kind() Kind { return KindRoomDug }

// Kind implements Event.
func (ObjectCreated) Kind() Kind { return KindObjectCreated }

// Kind implements Event.
func (ObjectRecycled) Kind() Kind { return KindObjectRecycled }

// Kind implements Event.
func (ObjectSpawned) Kind() Kind { return KindObjectSpawned }

// Kind implements Event.
func (TextWritten) Kind() Kind { return KindTextWritten }

// Kind implements Event.
func (TextRead) Kind() Kind { return KindTextRead }

// Kind implements Event.
func (ObjectExamined) Kind() Kind { return KindObjectExamined }

// Kind implements Event.
func (PlayerExamined) Kind() Kind { return KindPlayerExamined }

// Kind implements Event.
func (StateChanged) Kind() Kind { return KindStateChanged }

// Kind implements Event.
func (PlayerConnected) Kind() Kind { return KindPlayerConnected }

// Kind implements Event.
func (PlayerResumed) Kind() Kind { return KindPlayerResumed }

// Kind implements Event.
func (PlayerLinkless) Kind() Kind { return KindPlayerLinkless }

// Kind implements Event.
func (PlayerFaded) Kind() Kind { return KindPlayerFaded }

// Kind implements Event.
func (PlayerQuit) Kind() Kind { return KindPlayerQuit }

// Kind implements Event.
func (WhoListed) Kind() Kind { return KindWhoListed }

// Kind implements Event.
func (FindResults) Kind() Kind { return KindFindResults }

// Kind implements Event.
func (ScriptOutput) Kind() Kind { return KindScriptOutput }

// Kind implements Event.
func (ClockChanged) Kind() Kind { return KindClockChanged }

// Kind implements Event.
func (HelpShown) Kind() Kind { return KindHelpShown }

// Kind implements Event.
func (SessionIssued) Kind() Kind { return KindSessionIssued }

// Kind implements Event.
func (CommandFailed) Kind() Kind { return KindCommandFailed }

// Kind implements Event.
func (RateLimited) Kind() Kind { return KindRateLimited }
