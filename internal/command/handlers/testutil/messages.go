// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lanternmush/lantern/internal/event"
	"github.com/lanternmush/lantern/internal/script"
	"github.com/lanternmush/lantern/internal/world"
)

// For returns the messages in res addressed to player.
func For(res *event.Result, player world.PlayerID) []event.Message {
	var out []event.Message
	for _, m := range res.Messages() {
		if m.Recipient == player {
			out = append(out, m)
		}
	}
	return out
}

// Events returns the events of msgs in order.
func Events(msgs []event.Message) []event.Event {
	out := make([]event.Event, len(msgs))
	for i, m := range msgs {
		out[i] = m.Event
	}
	return out
}

// MockRunner is a testify mock of script.Runner.
type MockRunner struct {
	mock.Mock
}

var _ script.Runner = (*MockRunner)(nil)

// Run implements script.Runner.
func (m *MockRunner) Run(ctx context.Context, inv script.Invocation) (*script.Outcome, error) {
	args := m.Called(ctx, inv)
	outcome, _ := args.Get(0).(*script.Outcome)
	return outcome, args.Error(1)
}
