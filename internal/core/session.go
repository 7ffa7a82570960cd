// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/lanternmush/lantern/internal/world"
)

// DefaultPendingLimit bounds the output kept for a session while its
// connection is gone.
const DefaultPendingLimit = 64

// tokenBytes is the amount of randomness in a session token.
const tokenBytes = 32

// SessionState is where a session is in its lifecycle.
type SessionState uint8

// Session states.
const (
	StateDisconnected SessionState = iota
	StateConnected
	StateDisconnecting
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ErrSessionExpired is returned when a token names no live session.
var ErrSessionExpired = oops.Code("SESSION_EXPIRED").Errorf("session expired or unknown")

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Session binds a resume token to a player and their current connection.
type Session struct {
	Token    string
	PlayerID world.PlayerID
	ConnID   ulid.ULID
	State    SessionState

	// generation is bumped on every transition so a grace timer armed for
	// an earlier disconnect can recognise itself as stale.
	generation uint64
	timer      Timer
	pending    []string
	dropped    int
}

// Generation returns the session's transition counter.
func (s *Session) Generation() uint64 {
	return s.generation
}

// ExpireFunc is called by a grace timer when it fires.
type ExpireFunc func(token string, generation uint64)

// SessionManager maps tokens, players and connections to sessions and owns
// their grace timers.
//
// SessionManager is confined to the game loop and does no locking. Grace
// timers never touch it directly; they call the ExpireFunc, which must
// enqueue the expiry for the loop.
type SessionManager struct {
	byToken  map[string]*Session
	byPlayer map[world.PlayerID]*Session
	byConn   map[ulid.ULID]*Session

	grace        time.Duration
	pendingLimit int
	scheduler    Scheduler
	expire       ExpireFunc
}

// NewSessionManager creates a session manager. expire is invoked from timer
// goroutines.
func NewSessionManager(grace time.Duration, scheduler Scheduler, expire ExpireFunc) *SessionManager {
	if scheduler == nil {
		scheduler = realScheduler{}
	}
	return &SessionManager{
		byToken:      make(map[string]*Session),
		byPlayer:     make(map[world.PlayerID]*Session),
		byConn:       make(map[ulid.ULID]*Session),
		grace:        grace,
		pendingLimit: DefaultPendingLimit,
		scheduler:    scheduler,
		expire:       expire,
	}
}

// Open creates a connected session for a freshly placed player.
func (sm *SessionManager) Open(player world.PlayerID, conn ulid.ULID) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	s := &Session{Token: token, PlayerID: player, ConnID: conn, State: StateConnected}
	sm.byToken[token] = s
	sm.byPlayer[player] = s
	sm.byConn[conn] = s
	sessionsActive.Set(float64(len(sm.byToken)))
	recordTransition("open")
	return s, nil
}

// ByToken returns the session for a resume token.
func (sm *SessionManager) ByToken(token string) (*Session, bool) {
	s, ok := sm.byToken[token]
	return s, ok
}

// ByPlayer returns the session of a player.
func (sm *SessionManager) ByPlayer(player world.PlayerID) (*Session, bool) {
	s, ok := sm.byPlayer[player]
	return s, ok
}

// ByConn returns the session currently bound to a connection.
func (sm *SessionManager) ByConn(conn ulid.ULID) (*Session, bool) {
	s, ok := sm.byConn[conn]
	return s, ok
}

// Rebind attaches s to conn, cancelling any grace timer. It returns the
// previous connection (zero if the session was already on conn) and the
// output buffered while the session was disconnecting.
func (sm *SessionManager) Rebind(s *Session, conn ulid.ULID) (previous ulid.ULID, pending []string) {
	sm.stopTimer(s)
	s.generation++
	if s.ConnID != conn {
		previous = s.ConnID
		delete(sm.byConn, s.ConnID)
	}
	s.ConnID = conn
	s.State = StateConnected
	sm.byConn[conn] = s

	pending = s.pending
	if s.dropped > 0 {
		slog.Warn("session output dropped while disconnected",
			"player_id", s.PlayerID.String(),
			"dropped", s.dropped,
		)
	}
	s.pending = nil
	s.dropped = 0
	recordTransition("resume")
	return previous, pending
}

// Disconnect moves the session bound to conn into its grace period. A
// connection that is not the session's current one is ignored and ok is
// false.
func (sm *SessionManager) Disconnect(conn ulid.ULID) (*Session, bool) {
	s, ok := sm.byConn[conn]
	if !ok || s.ConnID != conn {
		recordTransition("stale_disconnect")
		return nil, false
	}
	delete(sm.byConn, conn)

	sm.stopTimer(s)
	s.generation++
	s.State = StateDisconnecting
	token, generation := s.Token, s.generation
	s.timer = sm.scheduler.AfterFunc(sm.grace, func() {
		sm.expire(token, generation)
	})
	recordTransition("disconnect")
	return s, true
}

// Expire ends a session whose grace timer fired. It reports false, and does
// nothing, when the timer was superseded by a later transition.
func (sm *SessionManager) Expire(token string, generation uint64) (*Session, bool) {
	s, ok := sm.byToken[token]
	if !ok || s.State != StateDisconnecting || s.generation != generation {
		recordTransition("stale_expiry")
		return nil, false
	}
	s.timer = nil
	s.State = StateExpired
	sm.forget(s)
	recordTransition("expire")
	return s, true
}

// End removes a session immediately, as on quit.
func (sm *SessionManager) End(s *Session) {
	sm.stopTimer(s)
	s.generation++
	s.State = StateDisconnected
	sm.forget(s)
	recordTransition("end")
}

// Buffer keeps a line for a disconnecting session, dropping the oldest once
// the buffer is full.
func (sm *SessionManager) Buffer(s *Session, line string) {
	if len(s.pending) >= sm.pendingLimit {
		s.pending = s.pending[1:]
		s.dropped++
	}
	s.pending = append(s.pending, line)
}

// Sessions returns every live session.
func (sm *SessionManager) Sessions() []*Session {
	out := make([]*Session, 0, len(sm.byToken))
	for _, s := range sm.byToken {
		out = append(out, s)
	}
	return out
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	return len(sm.byToken)
}

// StopAll cancels every pending grace timer.
func (sm *SessionManager) StopAll() {
	for _, s := range sm.byToken {
		sm.stopTimer(s)
	}
}

func (sm *SessionManager) stopTimer(s *Session) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (sm *SessionManager) forget(s *Session) {
	delete(sm.byToken, s.Token)
	delete(sm.byPlayer, s.PlayerID)
	if current, ok := sm.byConn[s.ConnID]; ok && current == s {
		delete(sm.byConn, s.ConnID)
	}
	sessionsActive.Set(float64(len(sm.byToken)))
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_TOKEN_FAILED").Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}
