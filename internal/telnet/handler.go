// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package telnet

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"

	"github.com/lanternmush/lantern/internal/auth"
	"github.com/lanternmush/lantern/internal/core"
	"github.com/lanternmush/lantern/internal/world"
	"github.com/lanternmush/lantern/pkg/errutil"
)

// DefaultBanner greets new connections.
const DefaultBanner = "Welcome to Lantern.\n" + usage

const (
	usage = "Use 'login <name> <password>', 'register <name> <password>' or 'resume <token>'. 'quit' leaves."

	msgGoodbye        = "Goodbye."
	msgTooManyTries   = "Too many failed attempts. Goodbye."
	msgUnavailable    = "The world is not accepting connections right now. Please try again later."
	msgMissingArgs    = "Both a name and a password are required."
	msgMissingToken   = "Which token? Use 'resume <token>'."
	msgLoadFailed     = "Your belongings could not be found. Please try again."
	maxLineLength     = 4096
	maxLoginAttempts  = 5
	disconnectTimeout = 2 * time.Second
)

// ConnectionHandler serves one connection. Before login it answers the
// login, register and resume lines itself; afterwards every line is handed
// to the engine.
type ConnectionHandler struct {
	conn      net.Conn
	deps      Deps
	connID    ulid.ULID
	logger    *slog.Logger
	closeOnce sync.Once

	inWorld  bool
	attempts int
}

// NewConnectionHandler creates a handler with a fresh connection ID.
func NewConnectionHandler(conn net.Conn, deps Deps) *ConnectionHandler {
	connID := core.NewConnID()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionHandler{
		conn:   conn,
		deps:   deps,
		connID: connID,
		logger: logger.With("conn_id", connID.String(), "remote", conn.RemoteAddr().String()),
	}
}

// ConnID returns the connection's ID.
func (h *ConnectionHandler) ConnID() ulid.ULID {
	return h.connID
}

// Handle serves the connection until the peer leaves, the engine closes the
// connection's outbox, or ctx is cancelled.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	connectionsActive.Inc()
	defer connectionsActive.Dec()
	h.logger.DebugContext(ctx, "connection opened")

	out := h.deps.Outbox.Open(h.connID)
	written := make(chan struct{})
	go h.writeLoop(out, written)

	stop := context.AfterFunc(ctx, h.close)
	h.send(h.deps.Banner)
	h.readLoop(ctx)
	stop()

	h.disconnect(ctx)
	<-written
	h.close()
	h.logger.DebugContext(ctx, "connection closed", "in_world", h.inWorld)
}

// writeLoop is the only writer to the socket. It ends when the outbox
// channel is closed and then closes the socket, which ends the read loop.
func (h *ConnectionHandler) writeLoop(out <-chan string, done chan<- struct{}) {
	defer close(done)
	defer h.close()

	failed := false
	for line := range out {
		if failed {
			continue
		}
		if _, err := io.WriteString(h.conn, toWire(line)); err != nil {
			h.logger.Debug("write failed", "error", err)
			failed = true
		}
	}
}

func (h *ConnectionHandler) readLoop(ctx context.Context) {
	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 512), maxLineLength)
	for scanner.Scan() {
		if !h.processLine(ctx, sanitize(scanner.Text())) {
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		h.logger.DebugContext(ctx, "read failed", "error", err)
	}
}

// processLine reports whether the connection should stay open.
func (h *ConnectionHandler) processLine(ctx context.Context, line string) bool {
	if h.inWorld {
		if line == "" {
			return true
		}
		err := h.deps.Engine.Submit(ctx, core.Input{ConnID: h.connID, Text: line})
		if err != nil {
			if !errors.Is(err, core.ErrEngineStopped) && ctx.Err() == nil {
				errutil.LogErrorContext(ctx, h.logger, "input not submitted", err)
			}
			return false
		}
		return true
	}

	verb, rest := splitWord(line)
	switch strings.ToLower(verb) {
	case "":
		return true
	case "login", "connect":
		return h.enter(ctx, rest, false)
	case "register", "create":
		return h.enter(ctx, rest, true)
	case "resume":
		return h.resume(ctx, rest)
	case "quit":
		h.send(msgGoodbye)
		return false
	default:
		h.send(usage)
		return true
	}
}

// enter authenticates or registers, then places the player in the world.
func (h *ConnectionHandler) enter(ctx context.Context, args string, register bool) bool {
	username, password := splitWord(args)
	if username == "" || password == "" {
		h.send(msgMissingArgs)
		return true
	}

	var (
		player *world.Player
		err    error
	)
	if register {
		player, err = h.deps.Auth.Register(ctx, username, password)
	} else {
		player, err = h.deps.Auth.Authenticate(ctx, username, password)
	}
	if err != nil {
		return h.reject(ctx, username, err)
	}

	var inventory []*world.Object
	if !register {
		inventory, err = h.deps.Inventory.ListInventory(ctx, player.ID)
		if err != nil {
			errutil.LogErrorContext(ctx, h.logger, "failed to load inventory", err)
			h.send(msgLoadFailed)
			return true
		}
	}

	err = h.deps.Engine.SubmitWait(ctx, core.Login{
		ConnID:     h.connID,
		Player:     player,
		Inventory:  inventory,
		Registered: register,
	})
	return h.entered(ctx, err)
}

func (h *ConnectionHandler) resume(ctx context.Context, token string) bool {
	if token == "" {
		h.send(msgMissingToken)
		return true
	}
	err := h.deps.Engine.SubmitWait(ctx, core.Resume{ConnID: h.connID, Token: token})
	if errors.Is(err, core.ErrSessionExpired) {
		return h.countAttempt()
	}
	return h.entered(ctx, err)
}

// entered records the outcome of a Login or Resume item. The engine tells
// the connection itself when it cannot place the player.
func (h *ConnectionHandler) entered(ctx context.Context, err error) bool {
	switch {
	case err == nil:
		h.inWorld = true
		h.attempts = 0
		return true
	case errors.Is(err, core.ErrEngineStopped), ctx.Err() != nil:
		h.send(msgUnavailable)
		return false
	default:
		errutil.LogErrorContext(ctx, h.logger, "login not accepted", err)
		return h.countAttempt()
	}
}

func (h *ConnectionHandler) reject(ctx context.Context, username string, err error) bool {
	loginFailures.WithLabelValues(errutil.Code(err)).Inc()
	h.logger.InfoContext(ctx, "login rejected", "username", username, "code", errutil.Code(err))
	if d := auth.RetryDelay(err); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return false
		}
	}
	h.send(auth.Message(err))
	return h.countAttempt()
}

func (h *ConnectionHandler) countAttempt() bool {
	h.attempts++
	if h.attempts >= maxLoginAttempts {
		h.send(msgTooManyTries)
		return false
	}
	return true
}

// disconnect tells the engine the connection is gone and waits until the
// session has started buffering, then closes the outbox channel so the
// write loop ends even if the engine has stopped.
func (h *ConnectionHandler) disconnect(ctx context.Context) {
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
	defer cancel()
	if err := h.deps.Engine.SubmitWait(submitCtx, core.Disconnect{ConnID: h.connID}); err != nil &&
		!errors.Is(err, core.ErrEngineStopped) {
		h.logger.WarnContext(ctx, "disconnect not submitted", "error", err)
	}
	h.deps.Outbox.Close(h.connID)
}

func (h *ConnectionHandler) send(line string) {
	h.deps.Outbox.Send(h.connID, line)
}

func (h *ConnectionHandler) close() {
	h.closeOnce.Do(func() {
		if err := h.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			h.logger.Debug("error closing connection", "error", err)
		}
	})
}

// splitWord returns the first space-separated word of s and the trimmed
// remainder.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	word, rest, _ := strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}

// sanitize drops telnet negotiation bytes and other control characters.
func sanitize(line string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar || (unicode.IsControl(r) && r != '\t') {
			return -1
		}
		return r
	}, line))
}

// toWire converts a multi-line message to CRLF line endings.
func toWire(line string) string {
	return strings.ReplaceAll(line, "\n", "\r\n") + "\r\n"
}
