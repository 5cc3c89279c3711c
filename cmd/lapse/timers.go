// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"time"

	"braces.dev/errtrace"
	"github.com/spf13/viper"
	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/lapse/concurrent"
	"github.com/xmidt-org/lapse/timer"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Status is the externally visible snapshot of one timer.
type Status struct {
	ID    string      `json:"id"`
	Kind  string      `json:"kind"`
	State timer.State `json:"state"`
}

// Timers holds every timer the daemon was configured with.
type Timers struct {
	Repeating []*timer.Repeating
	OneShot   []*timer.OneShot
}

func (ts *Timers) All() []timer.Interface {
	all := make([]timer.Interface, 0, len(ts.Repeating)+len(ts.OneShot))
	for _, r := range ts.Repeating {
		all = append(all, r)
	}

	for _, o := range ts.OneShot {
		all = append(all, o)
	}

	return all
}

func (ts *Timers) Status() []Status {
	status := make([]Status, 0, len(ts.Repeating)+len(ts.OneShot))
	for _, r := range ts.Repeating {
		status = append(status, Status{ID: r.ID(), Kind: "repeating", State: r.State()})
	}

	for _, o := range ts.OneShot {
		status = append(status, Status{ID: o.ID(), Kind: "oneshot", State: o.State()})
	}

	return status
}

// TimersIn is the set of dependencies needed to build the configured timers.
type TimersIn struct {
	fx.In

	Viper    *viper.Viper
	Clock    clock.Interface
	Logger   *zap.Logger
	Measures *timer.Measures
}

// provideTimers creates an Idle timer for each configured definition.  Every callback
// just logs the firing.
func provideTimers(in TimersIn) (*Timers, error) {
	configs, err := timer.FromViper(in.Viper, timer.DefaultKey)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var (
		ts   = new(Timers)
		opts = []timer.Option{
			timer.WithClock(in.Clock),
			timer.WithLogger(in.Logger),
			timer.WithMeasures(in.Measures),
		}
	)

	for _, c := range configs.Repeating {
		var r *timer.Repeating
		r = timer.NewRepeating(c, func() {
			in.Logger.Info("tick", zap.String("id", r.ID()), zap.Int("ticks", r.Ticks()))
		}, opts...)

		ts.Repeating = append(ts.Repeating, r)
	}

	for _, c := range configs.OneShot {
		var o *timer.OneShot
		o = timer.NewOneShot(c, func() {
			in.Logger.Info("timeout", zap.String("id", o.ID()))
		}, opts...)

		ts.OneShot = append(ts.OneShot, o)
	}

	in.Logger.Info("timers configured",
		zap.Int("repeating", len(ts.Repeating)),
		zap.Int("oneshot", len(ts.OneShot)),
	)

	return ts, nil
}

func registerTimers(lc fx.Lifecycle, logger *zap.Logger, ts *Timers) {
	registerTimersFor(lc, logger, ts.All())
}

// registerTimersFor starts each timer when the application starts and disposes
// each timer when it stops, even ones that never started.
func registerTimersFor(lc fx.Lifecycle, logger *zap.Logger, all []timer.Interface) {
	var (
		set   = make(concurrent.RunnableSet, 0, len(all))
		scope *concurrent.Scope
	)

	for _, t := range all {
		set = append(set, t)
	}

	closeAll := func() {
		for _, t := range all {
			t.Close()
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var err error
			scope, err = concurrent.Execute(set)
			if err != nil {
				// fx won't call OnStop for a hook that failed to start
				scope.Close()
				closeAll()
			}

			return errtrace.Wrap(err)
		},
		OnStop: func(ctx context.Context) error {
			timeout := time.Minute
			if deadline, ok := ctx.Deadline(); ok {
				timeout = time.Until(deadline)
			}

			if scope != nil && !scope.CloseTimeout(timeout) {
				logger.Warn("timers did not shut down in time", zap.Duration("timeout", timeout))
			}

			closeAll()
			return nil
		},
	})
}
