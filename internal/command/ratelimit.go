// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lanternmush/lantern/internal/world"
)

// Default rate limiting values.
const (
	// DefaultBurstCapacity is the maximum number of commands a player can
	// execute in a burst before rate limiting kicks in.
	DefaultBurstCapacity = 10

	// DefaultSustainedRate is the number of commands per second allowed as
	// sustained rate (token refill rate).
	DefaultSustainedRate = 2.0

	// MinSustainedRate ensures sustained rate is at least 0.1 tokens/second.
	MinSustainedRate = 0.1

	// DefaultIdleMaxAge is how long an untouched bucket is kept.
	DefaultIdleMaxAge = time.Hour
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// BurstCapacity defaults to DefaultBurstCapacity if zero or negative.
	BurstCapacity int
	// SustainedRate defaults to DefaultSustainedRate if zero or negative.
	SustainedRate float64
	// IdleMaxAge defaults to DefaultIdleMaxAge if zero.
	IdleMaxAge time.Duration
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter is a token bucket per player.
//
// There is no background goroutine: the owner calls Sweep periodically (the
// game loop does so on every clock tick).
type RateLimiter struct {
	mu            sync.Mutex
	buckets       map[world.PlayerID]*bucket
	burstCapacity int
	sustainedRate float64
	idleMaxAge    time.Duration

	// nil if no registry provided
	bucketGauge prometheus.Gauge
}

// NewRateLimiter creates a rate limiter. If reg is non-nil a gauge of tracked
// players is registered with it.
func NewRateLimiter(cfg RateLimiterConfig, reg prometheus.Registerer) *RateLimiter {
	burstCapacity := cfg.BurstCapacity
	if burstCapacity <= 0 {
		burstCapacity = DefaultBurstCapacity
	}
	sustainedRate := cfg.SustainedRate
	if sustainedRate <= 0 {
		sustainedRate = DefaultSustainedRate
	}
	if sustainedRate < MinSustainedRate {
		sustainedRate = MinSustainedRate
	}
	idleMaxAge := cfg.IdleMaxAge
	if idleMaxAge <= 0 {
		idleMaxAge = DefaultIdleMaxAge
	}

	rl := &RateLimiter{
		buckets:       make(map[world.PlayerID]*bucket),
		burstCapacity: burstCapacity,
		sustainedRate: sustainedRate,
		idleMaxAge:    idleMaxAge,
	}
	if reg != nil {
		rl.bucketGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lantern_ratelimiter_players",
			Help: "Current number of players tracked by the command rate limiter",
		})
		reg.MustRegister(rl.bucketGauge)
	}
	return rl
}

// Allow consumes a token for player at time now. When no token is available
// it returns false and the time until one will be.
func (rl *RateLimiter) Allow(player world.PlayerID, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[player]
	if !exists {
		b = &bucket{tokens: float64(rl.burstCapacity), lastCheck: now}
		rl.buckets[player] = b
	}

	elapsed := now.Sub(b.lastCheck).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * rl.sustainedRate
		if b.tokens > float64(rl.burstCapacity) {
			b.tokens = float64(rl.burstCapacity)
		}
		b.lastCheck = now
	}

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true, 0
	}

	deficit := 1.0 - b.tokens
	return false, time.Duration(deficit / rl.sustainedRate * float64(time.Second))
}

// Forget drops a player's bucket.
func (rl *RateLimiter) Forget(player world.PlayerID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, player)
	rl.updateGauge()
}

// Sweep removes buckets untouched since IdleMaxAge before now.
func (rl *RateLimiter) Sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := now.Add(-rl.idleMaxAge)
	for id, b := range rl.buckets {
		if b.lastCheck.Before(threshold) {
			delete(rl.buckets, id)
		}
	}
	rl.updateGauge()
}

// Len returns the number of tracked players.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) updateGauge() {
	if rl.bucketGauge != nil {
		rl.bucketGauge.Set(float64(len(rl.buckets)))
	}
}
