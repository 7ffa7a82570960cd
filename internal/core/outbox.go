// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
)

// DefaultOutboxBuffer is the per-connection channel capacity.
const DefaultOutboxBuffer = 100

// Outbox delivers formatted lines to connections. Each connection has one
// buffered channel; its transport drains the channel and closes the
// connection once the channel is closed.
type Outbox struct {
	mu     sync.RWMutex
	conns  map[ulid.ULID]chan string
	buffer int
}

// NewOutbox creates an outbox whose channels hold buffer lines.
func NewOutbox(buffer int) *Outbox {
	if buffer <= 0 {
		buffer = DefaultOutboxBuffer
	}
	return &Outbox{
		conns:  make(map[ulid.ULID]chan string),
		buffer: buffer,
	}
}

// Open creates the channel for a connection.
func (o *Outbox) Open(conn ulid.ULID) <-chan string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.conns[conn]; ok {
		return ch
	}
	ch := make(chan string, o.buffer)
	o.conns[conn] = ch
	return ch
}

// Close closes a connection's channel. Lines already queued are still
// delivered. Closing an unknown connection is a no-op.
func (o *Outbox) Close(conn ulid.ULID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ch, ok := o.conns[conn]; ok {
		delete(o.conns, conn)
		close(ch)
	}
}

// Send queues a line for a connection without blocking. It reports false
// when the connection is unknown or its buffer is full, in which case the
// line is dropped.
func (o *Outbox) Send(conn ulid.ULID, line string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ch, ok := o.conns[conn]
	if !ok {
		return false
	}
	select {
	case ch <- line:
		return true
	default:
		outboxDropped.Inc()
		slog.Warn("outbound line dropped: connection buffer full",
			"conn_id", conn.String(),
		)
		return false
	}
}

// Len returns the number of open connections.
func (o *Outbox) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.conns)
}
