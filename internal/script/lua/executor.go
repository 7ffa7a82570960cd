// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package lua runs scripted object verbs in a sandboxed gopher-lua state.
//
// Each run gets a fresh state with these globals:
//
//	actor, target, room   tables with id, name and description
//	verb, args            the invoked verb and the rest of the input
//	tell(text)            message the actor
//	say_room(text)        message everyone else in the room
//	command(text)         run text as the actor after the current command
//	spawn_later(seconds, name [, description])
//	                      place a new object in the room after a delay
//
// A script that returns false reports failure. Any other return, including
// none, is success.
package lua

import (
	"context"
	"strings"
	"time"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lanternmush/lantern/internal/script"
	"github.com/lanternmush/lantern/pkg/errutil"
)

// Executor defaults.
const (
	DefaultTimeout       = 250 * time.Millisecond
	DefaultMaxMessages   = 32
	DefaultMaxCommands   = 8
	DefaultMaxSpawns     = 4
	DefaultMaxSpawnDelay = time.Hour
	defaultCallStackSize = 128
)

// Error codes.
const (
	CodeStateFailed  = "SCRIPT_STATE_FAILED"
	CodeScriptFailed = "SCRIPT_FAILED"
	CodeTimeout      = "SCRIPT_TIMEOUT"
)

var tracer = otel.Tracer("lantern/script/lua")

// Executor implements script.Runner. It is safe for concurrent use; every
// run gets its own state.
type Executor struct {
	factory       *stateFactory
	timeout       time.Duration
	maxMessages   int
	maxCommands   int
	maxSpawns     int
	maxSpawnDelay time.Duration
}

var _ script.Runner = (*Executor)(nil)

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds the wall time of one run.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLimits bounds the messages, follow-up commands and spawns one run may
// produce. Non-positive values keep the defaults.
func WithLimits(messages, commands, spawns int) Option {
	return func(e *Executor) {
		if messages > 0 {
			e.maxMessages = messages
		}
		if commands > 0 {
			e.maxCommands = commands
		}
		if spawns > 0 {
			e.maxSpawns = spawns
		}
	}
}

// WithMaxSpawnDelay bounds the delay spawn_later accepts.
func WithMaxSpawnDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.maxSpawnDelay = d
		}
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		factory:       newStateFactory(defaultCallStackSize),
		timeout:       DefaultTimeout,
		maxMessages:   DefaultMaxMessages,
		maxCommands:   DefaultMaxCommands,
		maxSpawns:     DefaultMaxSpawns,
		maxSpawnDelay: DefaultMaxSpawnDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes inv.Code. Lua errors and timeouts are returned as errors;
// a script returning false is an unsuccessful Outcome, not an error.
func (e *Executor) Run(ctx context.Context, inv script.Invocation) (*script.Outcome, error) {
	ctx, span := tracer.Start(ctx, "script.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("script.verb", inv.Verb),
		attribute.String("script.target_id", inv.Target.ID),
	)

	start := time.Now()
	outcome, err := e.run(ctx, inv)
	status := StatusSuccess
	switch {
	case errutil.Code(err) == CodeTimeout:
		status = StatusTimeout
	case err != nil:
		status = StatusError
	case !outcome.Success:
		status = StatusFailed
	}
	recordRun(status, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "script failed")
		return nil, err
	}
	return outcome, nil
}

func (e *Executor) run(ctx context.Context, inv script.Invocation) (*script.Outcome, error) {
	L, err := e.factory.newState()
	if err != nil {
		return nil, err
	}
	defer L.Close()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	L.SetContext(ctx)

	out := &script.Outcome{}
	e.install(L, inv, out)

	fn, err := L.LoadString(inv.Code)
	if err != nil {
		return nil, oops.Code(CodeScriptFailed).
			With("verb", inv.Verb).
			With("target_id", inv.Target.ID).
			Hint("syntax error").
			Wrap(err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, oops.Code(CodeTimeout).
				With("verb", inv.Verb).
				With("target_id", inv.Target.ID).
				With("timeout", e.timeout.String()).
				Wrap(ctxErr)
		}
		return nil, oops.Code(CodeScriptFailed).
			With("verb", inv.Verb).
			With("target_id", inv.Target.ID).
			Wrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	out.Success = ret != lua.LFalse
	return out, nil
}

// install sets the invocation globals and host functions on L.
func (e *Executor) install(L *lua.LState, inv script.Invocation, out *script.Outcome) {
	L.SetGlobal("actor", entityTable(L, inv.Actor))
	L.SetGlobal("target", entityTable(L, inv.Target))
	L.SetGlobal("room", entityTable(L, inv.Room))
	L.SetGlobal("verb", lua.LString(inv.Verb))
	L.SetGlobal("args", lua.LString(inv.Args))

	L.SetGlobal("tell", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if len(out.Messages)+len(out.RoomMessages) >= e.maxMessages {
			L.RaiseError("too many messages (limit %d)", e.maxMessages)
		}
		out.Messages = append(out.Messages, text)
		return 0
	}))
	L.SetGlobal("say_room", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if len(out.Messages)+len(out.RoomMessages) >= e.maxMessages {
			L.RaiseError("too many messages (limit %d)", e.maxMessages)
		}
		out.RoomMessages = append(out.RoomMessages, text)
		return 0
	}))
	L.SetGlobal("command", L.NewFunction(func(L *lua.LState) int {
		text := strings.TrimSpace(L.CheckString(1))
		if text == "" {
			L.ArgError(1, "command must not be empty")
		}
		if len(out.Commands) >= e.maxCommands {
			L.RaiseError("too many follow-up commands (limit %d)", e.maxCommands)
		}
		out.Commands = append(out.Commands, text)
		return 0
	}))
	L.SetGlobal("spawn_later", L.NewFunction(func(L *lua.LState) int {
		seconds := float64(L.CheckNumber(1))
		name := L.CheckString(2)
		description := L.OptString(3, "")
		delay := time.Duration(seconds * float64(time.Second))
		if delay < 0 || delay > e.maxSpawnDelay {
			L.ArgError(1, "delay out of range")
		}
		if strings.TrimSpace(name) == "" {
			L.ArgError(2, "name must not be empty")
		}
		if len(out.Spawns) >= e.maxSpawns {
			L.RaiseError("too many spawns (limit %d)", e.maxSpawns)
		}
		out.Spawns = append(out.Spawns, script.Spawn{Delay: delay, Name: name, Description: description})
		return 0
	}))
}

func entityTable(L *lua.LState, ent script.Entity) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(ent.ID))
	t.RawSetString("name", lua.LString(ent.Name))
	t.RawSetString("description", lua.LString(ent.Description))
	return t
}
