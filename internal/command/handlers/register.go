// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package handlers provides the handler for every built-in command type.
package handlers

import (
	"github.com/lanternmush/lantern/internal/command"
)

// RegisterAll binds one handler to every command type and verifies that the
// executor covers exactly command.AllTypes.
func RegisterAll(e *command.Executor) error {
	registrations := []func(*command.Executor) error{
		// Perception
		func(e *command.Executor) error { return command.Register(e, Look) },
		func(e *command.Executor) error { return command.Register(e, ShowInventory) },
		func(e *command.Executor) error { return command.Register(e, Help) },
		func(e *command.Executor) error { return command.Register(e, Find) },

		// Movement and objects
		func(e *command.Executor) error { return command.Register(e, Move) },
		func(e *command.Executor) error { return command.Register(e, Take) },
		func(e *command.Executor) error { return command.Register(e, Drop) },
		func(e *command.Executor) error { return command.Register(e, Give) },
		func(e *command.Executor) error { return command.Register(e, Operate) },
		func(e *command.Executor) error { return command.Register(e, Read) },
		func(e *command.Executor) error { return command.Register(e, Write) },

		// Communication and session
		func(e *command.Executor) error { return command.Register(e, Say) },
		func(e *command.Executor) error { return command.Register(e, Emote) },
		func(e *command.Executor) error { return command.Register(e, Who) },
		func(e *command.Executor) error { return command.Register(e, Quit) },

		// Building
		func(e *command.Executor) error { return command.Register(e, Dig) },
		func(e *command.Executor) error { return command.Register(e, Rename) },
		func(e *command.Executor) error { return command.Register(e, Describe) },
		func(e *command.Executor) error { return command.Register(e, Recycle) },
		func(e *command.Executor) error { return command.Register(e, Create) },

		// Scripts
		func(e *command.Executor) error { return command.Register(e, InvokeVerb) },
	}
	for _, register := range registrations {
		if err := register(e); err != nil {
			return err
		}
	}
	return e.Verify(command.AllTypes())
}
