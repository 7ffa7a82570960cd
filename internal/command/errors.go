// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for command pipeline failures.
const (
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeInvalidArgs      = "INVALID_ARGS"
	CodeWorldError       = "WORLD_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNoHandler        = "NO_HANDLER"
	CodeDuplicateHandler = "DUPLICATE_HANDLER"
	CodeDuplicateVerb    = "DUPLICATE_VERB"
	CodeHandlerPanic     = "HANDLER_PANIC"
	CodeHandlersMismatch = "HANDLERS_INCOMPLETE"
)

// ErrInvalidArgs creates an error for invalid arguments.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments")
}

// playerMessageKey holds the player-facing text in an error's context. A
// wrapped error reports its cause's code, so the text cannot hang off
// CodeWorldError alone.
const playerMessageKey = "player_message"

// WorldError creates an error for world state issues with a player-facing message.
func WorldError(message string, cause error) error {
	builder := oops.Code(CodeWorldError).With(playerMessageKey, message)
	if cause != nil {
		return builder.Wrap(cause)
	}
	return builder.Errorf("%s", message)
}

// ErrRateLimited creates an error for rate limiting.
func ErrRateLimited(cooldownMs int64) error {
	return oops.Code(CodeRateLimited).
		With("cooldown_ms", cooldownMs).
		Errorf("too many commands")
}

// ErrNoHandler creates an error for a command type without a handler.
func ErrNoHandler(cmd Command) error {
	return oops.Code(CodeNoHandler).
		With("command", cmd.Name()).
		With("type", typeName(cmd)).
		Errorf("no handler registered")
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	const generic = "Something went wrong. Please try again."
	if err == nil {
		return generic
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return generic
	}
	if msg, ok := oopsErr.Context()[playerMessageKey].(string); ok && msg != "" {
		return msg
	}

	switch oopsErr.Code() {
	case CodeInvalidArgs:
		if usage, ok := oopsErr.Context()["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Invalid arguments."
	case CodeRateLimited:
		return "Too many commands. Please slow down."
	default:
		return generic
	}
}

// IsPlayerFacing reports whether err carries a message meant for the player,
// as opposed to an internal fault.
func IsPlayerFacing(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	if _, ok := oopsErr.Context()[playerMessageKey].(string); ok {
		return true
	}
	switch oopsErr.Code() {
	case CodeInvalidArgs, CodeWorldError, CodeRateLimited:
		return true
	default:
		return false
	}
}
