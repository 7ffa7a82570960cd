// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lanternmush/lantern/internal/event"
)

var tracer = otel.Tracer("lantern/command")

// Handler executes one concrete command type.
type Handler interface {
	Handle(ctx context.Context, cmd Command, env *Env) (*event.Result, error)
}

// HandlerFunc adapts a typed function to Handler.
type HandlerFunc[C Command] func(ctx context.Context, cmd C, env *Env) (*event.Result, error)

// Handle implements Handler.
func (f HandlerFunc[C]) Handle(ctx context.Context, cmd Command, env *Env) (*event.Result, error) {
	c, ok := cmd.(C)
	if !ok {
		return nil, oops.Code(CodeNoHandler).
			With("type", typeName(cmd)).
			Errorf("handler received wrong command type")
	}
	return f(ctx, c, env)
}

// Executor routes each command to the single handler registered for its
// concrete type.
//
// Executor is not safe for concurrent registration; populate it before the
// game loop starts.
type Executor struct {
	handlers map[reflect.Type]Handler
}

// NewExecutor creates an executor with no handlers.
func NewExecutor() *Executor {
	return &Executor{handlers: make(map[reflect.Type]Handler)}
}

// Register binds fn to command type C. Registering a second handler for the
// same type is an error.
func Register[C Command](e *Executor, fn func(ctx context.Context, cmd C, env *Env) (*event.Result, error)) error {
	var zero C
	t := reflect.TypeOf(zero)
	if _, exists := e.handlers[t]; exists {
		return oops.Code(CodeDuplicateHandler).
			With("type", t.String()).
			Errorf("handler already registered")
	}
	e.handlers[t] = HandlerFunc[C](fn)
	return nil
}

// Execute runs the handler for cmd.
func (e *Executor) Execute(ctx context.Context, cmd Command, env *Env) (result *event.Result, err error) {
	h, ok := e.handlers[reflect.TypeOf(cmd)]
	if !ok {
		return nil, ErrNoHandler(cmd)
	}

	ctx, span := tracer.Start(ctx, "command.execute",
		trace.WithAttributes(
			attribute.String("command.name", cmd.Name()),
			attribute.String("player.id", env.Actor.ID.String()),
		),
	)
	metrics := NewMetricsRecorder(cmd.Name(), "core")
	completed := false
	defer func() {
		switch {
		case !completed:
			// The handler panicked; the loop recovers it.
			metrics.SetStatus(StatusError)
			span.SetStatus(codes.Error, "handler panicked")
		case err == nil:
			metrics.SetStatus(StatusSuccess)
		case IsPlayerFacing(err):
			metrics.SetStatus(StatusRejected)
		default:
			metrics.SetStatus(StatusError)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.Record()
		span.End()
	}()

	result, err = h.Handle(ctx, cmd, env)
	completed = true
	if err != nil && !IsPlayerFacing(err) {
		slog.WarnContext(ctx, "command execution failed",
			"command", cmd.Name(),
			"player_id", env.Actor.ID.String(),
			"error", err,
		)
	}
	return result, err
}

// Verify checks that every command in types has exactly one handler and that
// no handler is registered for a type outside types.
func (e *Executor) Verify(types []Command) error {
	want := make([]reflect.Type, 0, len(types))
	var missing, extra []string
	for _, c := range types {
		t := reflect.TypeOf(c)
		want = append(want, t)
		if _, ok := e.handlers[t]; !ok {
			missing = append(missing, t.String())
		}
	}
	for t := range e.handlers {
		if !slices.Contains(want, t) {
			extra = append(extra, t.String())
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.Sort(missing)
		slices.Sort(extra)
		return oops.Code(CodeHandlersMismatch).
			With("missing", missing).
			With("unknown", extra).
			Errorf("command handlers do not match command types")
	}
	return nil
}

func typeName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return reflect.TypeOf(cmd).String()
}
