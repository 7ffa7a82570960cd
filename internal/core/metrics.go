// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Loop item statuses.
const (
	ItemStatusOK     = "ok"
	ItemStatusFailed = "failed"
)

var (
	loopItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_loop_items_total",
			Help: "Total number of items processed by the game loop",
		},
		[]string{"item", "status"},
	)

	loopItemDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lantern_loop_item_duration_seconds",
			Help:    "Time spent processing one game loop item",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"item"},
	)

	loopQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lantern_loop_queue_depth",
		Help: "Items waiting in the game loop queue",
	})

	loopPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lantern_loop_panics_total",
		Help: "Total number of panics recovered by the game loop",
	})

	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lantern_sessions_active",
		Help: "Current number of live sessions, including those in their grace period",
	})

	sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_session_transitions_total",
			Help: "Total number of session lifecycle transitions",
		},
		[]string{"transition"},
	)

	outboxDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lantern_outbox_dropped_total",
		Help: "Total number of outbound lines dropped because a connection buffer was full",
	})
)

// RegisterMetrics registers core metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(loopItems, loopItemDuration, loopQueueDepth, loopPanics,
		sessionsActive, sessionTransitions, outboxDropped)
}

func recordItem(item, status string, d time.Duration) {
	loopItems.WithLabelValues(item, status).Inc()
	loopItemDuration.WithLabelValues(item).Observe(d.Seconds())
}

func recordTransition(transition string) {
	sessionTransitions.WithLabelValues(transition).Inc()
}
