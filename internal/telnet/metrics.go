// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package telnet

import "github.com/prometheus/client_golang/prometheus"

var (
	connectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lantern_telnet_connections_active",
		Help: "Current number of open telnet connections",
	})

	loginFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lantern_telnet_login_failures_total",
			Help: "Total number of rejected login and register attempts by error code",
		},
		[]string{"code"},
	)
)

// RegisterMetrics registers telnet metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(connectionsActive, loginFailures)
}
