// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Phases of the in-world day.
const (
	PhaseDawn  = "dawn"
	PhaseDay   = "day"
	PhaseDusk  = "dusk"
	PhaseNight = "night"
)

// PhaseOf returns the phase of the day for an hour in 0-23.
func PhaseOf(hour int) string {
	switch {
	case hour >= 5 && hour < 8:
		return PhaseDawn
	case hour >= 8 && hour < 18:
		return PhaseDay
	case hour >= 18 && hour < 21:
		return PhaseDusk
	default:
		return PhaseNight
	}
}

// RunClock enqueues a Tick every interval until ctx is done or the engine
// stops. Each tick advances the world by one hour.
func (e *Engine) RunClock(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := e.Submit(ctx, Tick{At: now}); err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrEngineStopped) {
					slog.WarnContext(ctx, "clock tick not delivered", "error", err)
				}
				return
			}
		}
	}
}
