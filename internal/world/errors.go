// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package world

import (
	"errors"

	"github.com/samber/oops"
)

// Sentinel errors returned by world operations and repositories.
var (
	// ErrNotFound is returned when a room, object or player does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRoomExists is returned when a new room's slug collides with an existing room.
	ErrRoomExists = errors.New("room already exists")

	// ErrExitExists is returned when an exit label is already in use on a room.
	ErrExitExists = errors.New("exit already exists")

	// ErrPlayerExists is returned when a player is already present in the live world.
	ErrPlayerExists = errors.New("player already in world")

	// ErrUsernameTaken is returned by repositories when a username is already registered.
	ErrUsernameTaken = errors.New("username taken")

	// ErrInvalidContainment is returned when an object would be held by more than one container.
	ErrInvalidContainment = errors.New("object must be in at most one place")

	// ErrPermissionDenied is returned when an actor may not modify an owned entity.
	ErrPermissionDenied = errors.New("permission denied")
)

// Error codes attached to wrapped world errors.
const (
	CodeNotFound         = "WORLD_NOT_FOUND"
	CodeRoomExists       = "WORLD_ROOM_EXISTS"
	CodeExitExists       = "WORLD_EXIT_EXISTS"
	CodeInvalidMove      = "WORLD_INVALID_MOVE"
	CodeInvariant        = "WORLD_INVARIANT_VIOLATED"
	CodePermissionDenied = "WORLD_PERMISSION_DENIED"
)

func roomNotFound(id RoomID) error {
	return oops.Code(CodeNotFound).With("room_id", string(id)).Wrapf(ErrNotFound, "room")
}

func objectNotFound(id ObjectID) error {
	return oops.Code(CodeNotFound).With("object_id", string(id)).Wrapf(ErrNotFound, "object")
}

func playerNotFound(id any) error {
	return oops.Code(CodeNotFound).With("player_id", id).Wrapf(ErrNotFound, "player")
}
