// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

// Package auth registers and authenticates players.
//
// Passwords are hashed with argon2id (Argon2idHasher). Service checks
// credentials against a world.PlayerRepository and throttles repeated
// failures per username with a progressive delay and a temporary lockout.
// Error codes map to connection-screen text through Message.
package auth
