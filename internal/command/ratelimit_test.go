// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("creates limiter with default values", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{}, nil)

		assert.Equal(t, DefaultBurstCapacity, rl.burstCapacity)
		assert.Equal(t, DefaultSustainedRate, rl.sustainedRate)
		assert.Equal(t, DefaultIdleMaxAge, rl.idleMaxAge)
	})

	t.Run("creates limiter with custom values", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 20, SustainedRate: 5.0}, nil)

		assert.Equal(t, 20, rl.burstCapacity)
		assert.Equal(t, 5.0, rl.sustainedRate)
	})

	t.Run("negative values use defaults", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: -5, SustainedRate: -1}, nil)
		assert.Equal(t, DefaultBurstCapacity, rl.burstCapacity)
		assert.Equal(t, DefaultSustainedRate, rl.sustainedRate)
	})

	t.Run("tiny sustained rate is clamped", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{SustainedRate: 0.01}, nil)
		assert.Equal(t, MinSustainedRate, rl.sustainedRate)
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	player := ulid.Make()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("allows a full burst then refuses", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 3, SustainedRate: 1}, nil)

		for i := 0; i < 3; i++ {
			ok, _ := rl.Allow(player, start)
			require.True(t, ok, "command %d", i)
		}
		ok, wait := rl.Allow(player, start)
		assert.False(t, ok)
		assert.Equal(t, time.Second, wait)
	})

	t.Run("refills at the sustained rate", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 1, SustainedRate: 2}, nil)

		ok, _ := rl.Allow(player, start)
		require.True(t, ok)
		ok, _ = rl.Allow(player, start.Add(100*time.Millisecond))
		assert.False(t, ok)
		ok, _ = rl.Allow(player, start.Add(600*time.Millisecond))
		assert.True(t, ok)
	})

	t.Run("never refills past the burst capacity", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 2, SustainedRate: 10}, nil)

		later := start.Add(time.Hour)
		rl.Allow(player, start)
		for i := 0; i < 2; i++ {
			ok, _ := rl.Allow(player, later)
			require.True(t, ok)
		}
		ok, _ := rl.Allow(player, later)
		assert.False(t, ok)
	})

	t.Run("players are limited independently", func(t *testing.T) {
		rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 1, SustainedRate: 1}, nil)
		other := ulid.Make()

		ok, _ := rl.Allow(player, start)
		require.True(t, ok)
		ok, _ = rl.Allow(other, start)
		assert.True(t, ok)
	})
}

func TestRateLimiter_SweepAndForget(t *testing.T) {
	reg := prometheus.NewRegistry()
	rl := NewRateLimiter(RateLimiterConfig{IdleMaxAge: time.Minute}, reg)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	idle, active, gone := ulid.Make(), ulid.Make(), ulid.Make()
	rl.Allow(idle, start)
	rl.Allow(active, start.Add(2*time.Minute))
	rl.Allow(gone, start.Add(2*time.Minute))
	require.Equal(t, 3, rl.Len())

	rl.Sweep(start.Add(2*time.Minute + time.Second))
	assert.Equal(t, 2, rl.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(rl.bucketGauge))

	rl.Forget(gone)
	assert.Equal(t, 1, rl.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(rl.bucketGauge))
}
