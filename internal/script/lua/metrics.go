// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package lua

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

var (
	scriptRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_script_runs_total",
			Help: "Total number of scripted verb runs by status",
		},
		[]string{"status"},
	)

	scriptDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lantern_script_duration_seconds",
		Help:    "Wall time of one scripted verb run",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
	})
)

// RegisterMetrics registers script metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(scriptRuns)
	reg.MustRegister(scriptDuration)
}

func recordRun(status string, d time.Duration) {
	scriptRuns.WithLabelValues(status).Inc()
	scriptDuration.Observe(d.Seconds())
}
