// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package command

import "time"

// MetricsRecorder tracks metrics for a single command execution.
type MetricsRecorder struct {
	startTime     time.Time
	commandName   string
	commandSource string
	status        string
}

// NewMetricsRecorder starts timing an execution of the named command.
func NewMetricsRecorder(name, source string) *MetricsRecorder {
	return &MetricsRecorder{
		startTime:     time.Now(),
		commandName:   name,
		commandSource: source,
		status:        StatusSuccess,
	}
}

// SetStatus sets the execution status for metrics.
func (m *MetricsRecorder) SetStatus(status string) {
	m.status = status
}

// Record writes the collected metrics if command name is available.
func (m *MetricsRecorder) Record() {
	if m.commandName == "" {
		return
	}

	RecordCommandExecution(m.commandName, m.commandSource, m.status)
	RecordCommandDuration(m.commandName, m.commandSource, time.Since(m.startTime))
}
