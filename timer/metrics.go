// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
)

// Names for our metrics
const (
	StartCounter   = "timer_start_count"
	PauseCounter   = "timer_pause_count"
	DisposeCounter = "timer_dispose_count"
	FireCounter    = "timer_fire_count"
	ActiveGauge    = "timer_active"
)

// Measures holds the metric objects timers report to.  A single Measures is normally
// shared by every timer in a process.
type Measures struct {
	// Start counts transitions into Active, whether from Idle or Paused.
	Start metrics.Counter

	// Pause counts transitions into Paused.
	Pause metrics.Counter

	// Dispose counts transitions into Disposed, including a OneShot disposing itself.
	Dispose metrics.Counter

	// Fire counts callback invocations.
	Fire metrics.Counter

	// Active is the number of timers currently Active.
	Active metrics.Gauge
}

// NewMeasures constructs a Measures given a go-kit metrics Provider
func NewMeasures(p provider.Provider) *Measures {
	return &Measures{
		Start:   p.NewCounter(StartCounter),
		Pause:   p.NewCounter(PauseCounter),
		Dispose: p.NewCounter(DisposeCounter),
		Fire:    p.NewCounter(FireCounter),
		Active:  p.NewGauge(ActiveGauge),
	}
}

// NopMeasures returns a Measures that discards everything.
func NopMeasures() *Measures {
	return NewMeasures(provider.NewDiscardProvider())
}

// transition records leaving from and entering to.
func (m *Measures) transition(from, to State) {
	if from == to {
		return
	}

	if from == Active {
		m.Active.Add(-1)
	}

	switch to {
	case Active:
		m.Start.Add(1)
		m.Active.Add(1)

	case Paused:
		m.Pause.Add(1)

	case Disposed:
		m.Dispose.Add(1)
	}
}
