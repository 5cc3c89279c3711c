// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"sync"
	"time"

	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/lapse/concurrent"
	"go.uber.org/zap"
)

// OneShot invokes a callback once, after a timeout, then disposes itself.  Time spent
// paused does not count against the timeout.
//
// The callback runs while the timer is still Active, and the timer becomes Disposed as soon as
// the callback returns.  Calling Start or Pause from the callback has no effect.
type OneShot struct {
	id       string
	timeout  time.Duration
	callback func()

	opts   options
	logger *zap.Logger

	lock       sync.Mutex
	lifecycle  lifecycle
	timer      clock.Timer
	remaining  time.Duration
	startTime  time.Time
	generation uint64

	// fired is set once the callback is running.  The timer is still Active then, but
	// it can no longer be paused.
	fired bool
}

var (
	_ Interface           = (*OneShot)(nil)
	_ concurrent.Runnable = (*OneShot)(nil)
)

// NewOneShot creates an Idle OneShot timer.  A nil callback is treated as a no-op.
func NewOneShot(c OneShotConfig, callback func(), o ...Option) *OneShot {
	return newOneShot(c, callback, newOptions(o...))
}

func newOneShot(c OneShotConfig, callback func(), opts options) *OneShot {
	if callback == nil {
		callback = func() {}
	}

	t := &OneShot{
		id:        newID(c.ID),
		timeout:   orDuration(c.Timeout, DefaultTimeout),
		callback:  callback,
		opts:      opts,
		lifecycle: newLifecycle(),
	}

	t.logger = opts.logger.With(
		zap.String("id", t.id),
		zap.String("kind", "oneshot"),
		zap.Duration("timeout", t.timeout),
	)

	return t
}

func (t *OneShot) ID() string { return t.id }

func (t *OneShot) Timeout() time.Duration { return t.timeout }

func (t *OneShot) State() State {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lifecycle.state()
}

// Remaining returns how much of the timeout was left when the timer was paused.  It is zero
// unless the timer is Paused.
func (t *OneShot) Remaining() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.lifecycle.state() != Paused {
		return 0
	}

	return t.remaining
}

// Renew returns a new Idle timer.  Zero-valued fields of c are inherited from this timer, as are
// the callback and all options.  This timer is not modified.
func (t *OneShot) Renew(c OneShotConfig) *OneShot {
	return newOneShot(
		OneShotConfig{
			ID:      orString(c.ID, t.id),
			Timeout: orDuration(c.Timeout, t.timeout),
		},
		t.callback,
		t.opts,
	)
}

// Start arms this timer for its full timeout when Idle, or for whatever was left of it when
// Paused.  It does nothing in any other state.  Start never blocks.
func (t *OneShot) Start() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.lifecycle.permits(triggerStart) {
		t.logger.Debug("ignoring start", zap.Stringer("state", t.lifecycle.state()))
		return
	}

	if t.lifecycle.state() == Idle {
		t.remaining = t.timeout
	}

	t.generation++
	generation := t.generation
	t.timer = t.opts.clock.AfterFunc(t.remaining, func() { t.fire(generation) })
	t.startTime = t.opts.clock.Now()

	from := t.lifecycle.fire(triggerStart)
	t.opts.measures.transition(from, Active)
	t.logger.Debug("timer started", zap.Stringer("from", from), zap.Duration("remaining", t.remaining))
}

// Resume is an alias for Start.
func (t *OneShot) Resume() {
	t.Start()
}

func (t *OneShot) fire(generation uint64) {
	t.lock.Lock()
	if generation != t.generation || !t.lifecycle.permits(triggerExpire) {
		t.lock.Unlock()
		return
	}

	t.generation++
	t.timer = nil
	t.fired = true
	t.logger.Debug("timer fired")
	t.lock.Unlock()

	t.opts.measures.Fire.Add(1)
	t.callback()

	t.lock.Lock()
	defer t.lock.Unlock()

	// the callback may have disposed this timer itself
	if t.lifecycle.permits(triggerExpire) {
		t.startTime = time.Time{}
		t.remaining = 0
		t.opts.measures.transition(t.lifecycle.fire(triggerExpire), Disposed)
	}
}

// disarm stops the pending call, if any.  Must be called under the lock.
func (t *OneShot) disarm() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pause suspends an Active timer, keeping the unelapsed part of the timeout.  It does nothing
// unless the timer is Active.
func (t *OneShot) Pause() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.fired || !t.lifecycle.permits(triggerPause) {
		t.logger.Debug("ignoring pause", zap.Stringer("state", t.lifecycle.state()), zap.Bool("fired", t.fired))
		return
	}

	t.disarm()
	t.remaining -= t.opts.clock.Now().Sub(t.startTime)
	if t.remaining < 0 {
		t.remaining = 0
	}

	t.opts.measures.transition(t.lifecycle.fire(triggerPause), Paused)
	t.logger.Debug("timer paused", zap.Duration("remaining", t.remaining))
}

// Dispose permanently stops this timer without firing it.  It is idempotent.
func (t *OneShot) Dispose() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.lifecycle.permits(triggerDispose) {
		return
	}

	t.disarm()
	t.startTime = time.Time{}
	t.remaining = 0
	t.opts.measures.transition(t.lifecycle.fire(triggerDispose), Disposed)
	t.logger.Debug("timer disposed")
}

// Stop is an alias for Dispose.
func (t *OneShot) Stop() {
	t.Dispose()
}

// Close disposes this timer and returns nil, which makes a timer usable as an io.Closer.
func (t *OneShot) Close() error {
	t.Dispose()
	return nil
}

// Run starts this timer and disposes it once shutdown is closed.
func (t *OneShot) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	return run(t, func() error { t.Start(); return nil }, waitGroup, shutdown)
}
