// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/lapse/concurrent"
	"go.uber.org/zap"
)

// Repeating invokes a callback every period until it is paused or disposed.
type Repeating struct {
	id       string
	period   time.Duration
	exact    bool
	callback func()

	opts   options
	logger *zap.Logger

	lock      sync.Mutex
	lifecycle lifecycle
	ticker    clock.Ticker
	ticks     int
	armTicks  int
	remaining time.Duration
	startTime time.Time

	// generation is bumped whenever the ticker is replaced or stopped, so that
	// a tick which raced with Pause or Dispose can recognize itself as stale.
	generation uint64

	// resuming is non-nil while a drift-compensating Start is waiting out the remainder
	// of the interrupted period.  Closing it abandons the resume.
	resuming chan struct{}
}

var (
	_ Interface           = (*Repeating)(nil)
	_ concurrent.Runnable = (*Repeating)(nil)
)

// NewRepeating creates an Idle Repeating timer.  A nil callback is treated as a no-op.
func NewRepeating(c RepeatingConfig, callback func(), o ...Option) *Repeating {
	return newRepeating(c, callback, newOptions(o...))
}

func newRepeating(c RepeatingConfig, callback func(), opts options) *Repeating {
	if callback == nil {
		callback = func() {}
	}

	r := &Repeating{
		id:        newID(c.ID),
		period:    orDuration(c.Period, DefaultPeriod),
		exact:     c.Exact,
		callback:  callback,
		opts:      opts,
		lifecycle: newLifecycle(),
	}

	r.logger = opts.logger.With(
		zap.String("id", r.id),
		zap.String("kind", "repeating"),
		zap.Duration("period", r.period),
		zap.Bool("exact", r.exact),
	)

	return r
}

func (r *Repeating) ID() string { return r.id }

func (r *Repeating) Period() time.Duration { return r.period }

func (r *Repeating) Exact() bool { return r.exact }

func (r *Repeating) State() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.lifecycle.state()
}

// Ticks returns the number of callback invocations since the timer was last started from Idle.
func (r *Repeating) Ticks() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.ticks
}

// Remaining returns the time left until the next tick would have fired when the timer was paused.
// It is zero unless the timer is Paused.
func (r *Repeating) Remaining() time.Duration {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.lifecycle.state() != Paused {
		return 0
	}

	return r.remaining
}

// Renew returns a new Idle timer.  Zero-valued fields of c are inherited from this timer, as are
// the callback and all options.  This timer is not modified.
func (r *Repeating) Renew(c RepeatingConfig) *Repeating {
	return newRepeating(
		RepeatingConfig{
			ID:     orString(c.ID, r.id),
			Period: orDuration(c.Period, r.period),
			Exact:  c.Exact || r.exact,
		},
		r.callback,
		r.opts,
	)
}

// Start arms this timer if it is Idle or Paused, and does nothing otherwise.
//
// From Idle, or from Paused when the timer is exact, Start returns immediately.  From Paused
// when the timer is not exact, Start blocks for whatever remained of the period interrupted by
// Pause, and then resumes ticking with a full period.  A Pause or Dispose during that wait abandons the
// resume.  If ctx is canceled during that wait, the timer stays Paused and ctx.Err() is returned.
// No other error is ever returned.
func (r *Repeating) Start(ctx context.Context) error {
	r.lock.Lock()
	if r.resuming != nil || !r.lifecycle.permits(triggerStart) {
		r.logger.Debug("ignoring start", zap.Stringer("state", r.lifecycle.state()))
		r.lock.Unlock()
		return nil
	}

	if r.lifecycle.state() == Idle || r.exact {
		r.arm()
		r.lock.Unlock()
		return nil
	}

	var (
		wait     = r.remaining
		resuming = make(chan struct{})
	)

	r.resuming = resuming
	r.logger.Debug("waiting to resume", zap.Duration("remaining", wait))
	r.lock.Unlock()

	return r.compensate(ctx, wait, resuming)
}

// Resume is an alias for Start.
func (r *Repeating) Resume(ctx context.Context) error {
	return r.Start(ctx)
}

// compensate waits out the remainder of the interrupted period, then arms the regular cadence.
func (r *Repeating) compensate(ctx context.Context, wait time.Duration, resuming chan struct{}) error {
	t := r.opts.clock.NewTimer(wait)
	defer t.Stop()

	select {
	case <-t.C():

	case <-resuming:
		return nil

	case <-ctx.Done():
		r.lock.Lock()
		if r.resuming == resuming {
			r.resuming = nil
		}

		r.lock.Unlock()
		r.logger.Debug("resume canceled", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	r.lock.Lock()
	if r.resuming != resuming {
		// abandoned by Pause or Dispose after the wait completed
		r.lock.Unlock()
		return nil
	}

	r.resuming = nil
	r.arm()
	r.lock.Unlock()
	return nil
}

// arm starts the ticker and transitions to Active.  Must be called under the lock, from
// Idle or Paused.
func (r *Repeating) arm() {
	r.generation++
	generation := r.generation
	r.ticker = r.opts.clock.TickFunc(r.period, func() { r.tick(generation) })
	r.startTime = r.opts.clock.Now()
	r.armTicks = 0
	r.remaining = 0

	from := r.lifecycle.fire(triggerStart)
	if from == Idle {
		r.ticks = 0
	}

	r.opts.measures.transition(from, Active)
	r.logger.Debug("timer started", zap.Stringer("from", from), zap.Int("ticks", r.ticks))
}

func (r *Repeating) tick(generation uint64) {
	r.lock.Lock()
	if generation != r.generation || r.lifecycle.state() != Active {
		r.lock.Unlock()
		return
	}

	r.ticks++
	r.armTicks++
	r.lock.Unlock()

	r.opts.measures.Fire.Add(1)
	r.callback()
}

// disarm stops the ticker, if any.  Must be called under the lock.
func (r *Repeating) disarm() {
	r.generation++
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

// Pause suspends an Active timer, remembering how far into the current period it got.
// Pausing while a Start is waiting to resume abandons that Start.  Otherwise, Pause does nothing
// unless the timer is Active.
func (r *Repeating) Pause() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.resuming != nil {
		close(r.resuming)
		r.resuming = nil
		r.logger.Debug("pending resume abandoned", zap.Duration("remaining", r.remaining))
		return
	}

	if !r.lifecycle.permits(triggerPause) {
		r.logger.Debug("ignoring pause", zap.Stringer("state", r.lifecycle.state()))
		return
	}

	r.disarm()

	elapsed := r.opts.clock.Now().Sub(r.startTime) - time.Duration(r.armTicks)*r.period
	if elapsed < 0 {
		elapsed = 0
	}

	r.remaining = r.period - elapsed%r.period
	r.opts.measures.transition(r.lifecycle.fire(triggerPause), Paused)
	r.logger.Debug("timer paused", zap.Duration("remaining", r.remaining), zap.Int("ticks", r.ticks))
}

// Dispose permanently stops this timer.  It is idempotent.
func (r *Repeating) Dispose() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.resuming != nil {
		close(r.resuming)
		r.resuming = nil
	}

	if !r.lifecycle.permits(triggerDispose) {
		return
	}

	r.disarm()
	r.startTime = time.Time{}
	r.remaining = 0
	r.ticks = 0
	r.armTicks = 0

	r.opts.measures.transition(r.lifecycle.fire(triggerDispose), Disposed)
	r.logger.Debug("timer disposed")
}

// Stop is an alias for Dispose.
func (r *Repeating) Stop() {
	r.Dispose()
}

// Close disposes this timer and returns nil, which makes a timer usable as an io.Closer.
func (r *Repeating) Close() error {
	r.Dispose()
	return nil
}

// Run starts this timer and disposes it once shutdown is closed.
func (r *Repeating) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	return run(r, func() error { return r.Start(context.Background()) }, waitGroup, shutdown)
}
