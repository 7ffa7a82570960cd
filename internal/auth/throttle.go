// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package auth

import (
	"strings"
	"sync"
	"time"
)

// Throttle defaults.
const (
	// LockoutThreshold is the number of consecutive failures that locks a
	// username out.
	LockoutThreshold = 7

	// LockoutDuration is how long a lockout lasts.
	LockoutDuration = 15 * time.Minute

	maxDelay = 32 * time.Second
)

// Verdict is the throttle's view of a username before an attempt.
type Verdict struct {
	// Delay is how long the caller should wait before answering a failed
	// attempt.
	Delay time.Duration
	// LockedOut is true while the username may not log in at all.
	LockedOut bool
	// Remaining is the time left on a lockout.
	Remaining time.Duration
}

type attempts struct {
	failures    int
	lockedUntil time.Time
	lastFailure time.Time
}

// Throttle tracks consecutive login failures per username in memory. Counts
// are forgotten on restart and after a successful login.
type Throttle struct {
	mu      sync.Mutex
	entries map[string]*attempts
	now     func() time.Time
}

// NewThrottle creates an empty throttle.
func NewThrottle() *Throttle {
	return &Throttle{
		entries: make(map[string]*attempts),
		now:     time.Now,
	}
}

// Check returns the verdict for username.
func (t *Throttle) Check(username string) Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.entries[key(username)]
	if !ok {
		return Verdict{}
	}
	return verdictFor(a, t.now())
}

// RecordFailure counts a failed attempt and returns the updated verdict.
// Reaching LockoutThreshold starts a lockout and resets the count.
func (t *Throttle) RecordFailure(username string) Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	k := key(username)
	a, ok := t.entries[k]
	if !ok {
		a = &attempts{}
		t.entries[k] = a
	}
	a.failures++
	a.lastFailure = now
	if a.failures >= LockoutThreshold {
		a.failures = 0
		a.lockedUntil = now.Add(LockoutDuration)
	}
	return verdictFor(a, now)
}

// RecordSuccess clears the username's history.
func (t *Throttle) RecordSuccess(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key(username))
}

// Prune drops entries with no failure or lockout newer than idle.
func (t *Throttle) Prune(idle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	removed := 0
	for k, a := range t.entries {
		if now.After(a.lockedUntil) && now.Sub(a.lastFailure) > idle {
			delete(t.entries, k)
			removed++
		}
	}
	return removed
}

// verdictFor applies progressive delay: 2^(failures-1) seconds, capped.
func verdictFor(a *attempts, now time.Time) Verdict {
	if now.Before(a.lockedUntil) {
		return Verdict{LockedOut: true, Remaining: a.lockedUntil.Sub(now)}
	}
	if a.failures == 0 {
		return Verdict{}
	}
	delay := time.Duration(1<<(a.failures-1)) * time.Second
	if delay > maxDelay {
		delay = maxDelay
	}
	return Verdict{Delay: delay}
}

func key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
