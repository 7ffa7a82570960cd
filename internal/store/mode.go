// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package store

// Mode selects how a write is issued to the persistence worker.
type Mode uint8

const (
	// Deferred enqueues the write and returns without waiting for storage.
	Deferred Mode = iota
	// Immediate waits until the write is stored or has failed. Use it for
	// ownership and account changes that must not be lost silently.
	Immediate
)

func (m Mode) String() string {
	switch m {
	case Deferred:
		return "deferred"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}
