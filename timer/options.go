// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Option configures the ambient collaborators of a timer.  Options are inherited by Renew.
type Option func(*options)

type options struct {
	clock    clock.Interface
	logger   *zap.Logger
	measures *Measures
}

func newOptions(o ...Option) options {
	opts := options{
		clock:    clock.System(),
		logger:   sallust.Default(),
		measures: NopMeasures(),
	}

	for _, f := range o {
		f(&opts)
	}

	return opts
}

// WithClock sets the clock a timer schedules against.  If nil, clock.System() is used.
func WithClock(c clock.Interface) Option {
	return func(o *options) {
		if c == nil {
			o.clock = clock.System()
		} else {
			o.clock = c
		}
	}
}

// WithLogger sets the logger for lifecycle events.  If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			o.logger = sallust.Default()
		} else {
			o.logger = l
		}
	}
}

// WithMeasures sets the metrics a timer reports to.  If nil, metrics are discarded.
func WithMeasures(m *Measures) Option {
	return func(o *options) {
		if m == nil {
			o.measures = NopMeasures()
		} else {
			o.measures = m
		}
	}
}
