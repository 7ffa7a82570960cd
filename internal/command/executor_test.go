// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/internal/command"
	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/pkg/errutil"
)

func TestExecutor_RegisterAndExecute(t *testing.T) {
	f := newFixture(t)
	e := command.NewExecutor()

	require.NoError(t, command.Register(e, func(_ context.Context, cmd command.Say, env *command.Env) (*event.Result, error) {
		return event.Reply(env.Actor.ID, event.Said{Speaker: env.Actor.Username, Text: cmd.Text}), nil
	}))

	res, err := e.Execute(context.Background(), command.Say{Text: "hi"}, &command.Env{World: f.world, Actor: f.alice})
	require.NoError(t, err)
	require.Len(t, res.Messages(), 1)
	assert.Equal(t, event.Said{Speaker: "alice", Text: "hi"}, res.Messages()[0].Event)
}

func TestExecutor_RegisterRejectsSecondHandler(t *testing.T) {
	e := command.NewExecutor()
	handler := func(context.Context, command.Who, *command.Env) (*event.Result, error) { return nil, nil }

	require.NoError(t, command.Register(e, handler))
	err := command.Register(e, handler)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, command.CodeDuplicateHandler)
}

func TestExecutor_ExecuteWithoutHandler(t *testing.T) {
	f := newFixture(t)
	e := command.NewExecutor()

	_, err := e.Execute(context.Background(), command.Who{}, &command.Env{World: f.world, Actor: f.alice})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, command.CodeNoHandler)
}

func TestExecutor_ExecutePropagatesHandlerError(t *testing.T) {
	f := newFixture(t)
	e := command.NewExecutor()
	boom := errors.New("boom")
	require.NoError(t, command.Register(e, func(context.Context, command.Who, *command.Env) (*event.Result, error) {
		return nil, boom
	}))

	_, err := e.Execute(context.Background(), command.Who{}, &command.Env{World: f.world, Actor: f.alice})
	assert.ErrorIs(t, err, boom)
}

func TestExecutor_PanicRecordedAsError(t *testing.T) {
	f := newFixture(t)
	e := command.NewExecutor()
	require.NoError(t, command.Register(e, func(context.Context, command.Help, *command.Env) (*event.Result, error) {
		panic("boom")
	}))
	count := func(status string) float64 {
		return testutil.ToFloat64(command.CommandExecutions.WithLabelValues("help", "core", status))
	}
	successes, errs := count(command.StatusSuccess), count(command.StatusError)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = e.Execute(context.Background(), command.Help{}, &command.Env{World: f.world, Actor: f.alice})
	})

	assert.Equal(t, successes, count(command.StatusSuccess))
	assert.Equal(t, errs+1, count(command.StatusError))
}

func TestExecutor_Verify(t *testing.T) {
	e := command.NewExecutor()
	require.NoError(t, command.Register(e, func(context.Context, command.Who, *command.Env) (*event.Result, error) { return nil, nil }))
	require.NoError(t, command.Register(e, func(context.Context, command.Quit, *command.Env) (*event.Result, error) { return nil, nil }))

	t.Run("complete", func(t *testing.T) {
		assert.NoError(t, e.Verify([]command.Command{command.Who{}, command.Quit{}}))
	})

	t.Run("missing handler", func(t *testing.T) {
		err := e.Verify([]command.Command{command.Who{}, command.Quit{}, command.Look{}})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, command.CodeHandlersMismatch)
		errutil.AssertErrorContext(t, err, "missing", []string{"command.Look"})
	})

	t.Run("unknown handler", func(t *testing.T) {
		err := e.Verify([]command.Command{command.Who{}})
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "unknown", []string{"command.Quit"})
	})
}

func TestAllTypes_NamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range command.AllTypes() {
		name := c.Name()
		if name == "" {
			// Operate names itself after its action.
			continue
		}
		assert.False(t, seen[name], "duplicate command name %q", name)
		seen[name] = true
	}
}
