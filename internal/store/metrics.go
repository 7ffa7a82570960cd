// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Write statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

var (
	writesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_store_writes_total",
			Help: "Total number of persistence writes by kind, mode and status",
		},
		[]string{"kind", "mode", "status"},
	)

	writeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lantern_store_write_duration_seconds",
			Help:    "Time spent storing one write, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	writeRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_store_write_retries_total",
			Help: "Total number of retried persistence writes",
		},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lantern_store_queue_depth",
		Help: "Writes waiting for the persistence worker",
	})
)

// RegisterMetrics registers store metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(writesTotal, writeDuration, writeRetries, queueDepth)
}

func recordWrite(kind string, mode Mode, status string, d time.Duration) {
	writesTotal.WithLabelValues(kind, mode.String(), status).Inc()
	writeDuration.WithLabelValues(kind).Observe(d.Seconds())
}
