// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/xmidt-org/lapse/clock"
)

// Epoch is the instant a Fake created by NewFake starts at.
var Epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Fake is a virtual clock.  Time only moves when Advance is called.  Everything scheduled
// to happen within the advanced window happens synchronously, in timestamp order, on the
// goroutine calling Advance.  Scheduled functions may schedule or stop other work, and anything
// they schedule that falls inside the window is also run before Advance returns.
//
// Channel-based timers and tickers (NewTimer, NewTicker, Sleep) deliver with a non-blocking
// send on a buffered channel, exactly as the time package does.  Goroutines blocked on such a
// channel wake up asynchronously, so tests normally pair Advance with BlockUntil or some other
// synchronization.
type Fake struct {
	lock    sync.Mutex
	added   *sync.Cond
	now     time.Time
	nextID  uint64
	waiters []*waiter
}

var _ clock.Interface = (*Fake)(nil)

// NewFake creates a Fake positioned at Epoch.
func NewFake() *Fake {
	return NewFakeAt(Epoch)
}

// NewFakeAt creates a Fake positioned at the given instant.
func NewFakeAt(now time.Time) *Fake {
	f := &Fake{now: now}
	f.added = sync.NewCond(&f.lock)
	return f
}

type waiter struct {
	fake   *Fake
	id     uint64
	at     time.Time
	period time.Duration
	f      func()
	c      chan time.Time
}

func (w *waiter) fire(now time.Time) {
	if w.f != nil {
		w.f()
		return
	}

	select {
	case w.c <- now:
	default:
	}
}

func (w *waiter) C() <-chan time.Time {
	return w.c
}

func (w *waiter) Stop() bool {
	return w.fake.remove(w)
}

func (w *waiter) Reset(d time.Duration) bool {
	f := w.fake
	f.lock.Lock()
	defer f.lock.Unlock()

	active := f.removeLocked(w)
	w.at = f.now.Add(d)
	f.addLocked(w)
	return active
}

// fakeTicker hides Reset, which tickers don't have in clock.Ticker.
type fakeTicker struct {
	w *waiter
}

func (ft fakeTicker) C() <-chan time.Time {
	return ft.w.c
}

func (ft fakeTicker) Stop() {
	ft.w.Stop()
}

func (f *Fake) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.now
}

// Sleep blocks until some other goroutine advances this clock by at least d.
func (f *Fake) Sleep(d time.Duration) {
	<-f.NewTimer(d).C()
}

func (f *Fake) NewTimer(d time.Duration) clock.Timer {
	return f.schedule(d, 0, nil)
}

func (f *Fake) NewTicker(d time.Duration) clock.Ticker {
	if d <= 0 {
		panic("non-positive interval for NewTicker")
	}

	return fakeTicker{f.schedule(d, d, nil)}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return f.schedule(d, 0, fn)
}

func (f *Fake) TickFunc(d time.Duration, fn func()) clock.Ticker {
	if d <= 0 {
		panic("non-positive interval for TickFunc")
	}

	return fakeTicker{f.schedule(d, d, fn)}
}

// Pending returns the number of timers, tickers, and sleepers that have not yet fired or been stopped.
func (f *Fake) Pending() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.waiters)
}

// BlockUntil waits until at least n timers, tickers, or sleepers are pending.  This is how a test
// synchronizes with a goroutine that is about to block on this clock.
func (f *Fake) BlockUntil(n int) {
	f.lock.Lock()
	for len(f.waiters) < n {
		f.added.Wait()
	}

	f.lock.Unlock()
}

// Advance moves this clock forward by d, running everything that comes due along the way.
func (f *Fake) Advance(d time.Duration) {
	f.lock.Lock()
	end := f.now.Add(d)
	for len(f.waiters) > 0 && !f.waiters[0].at.After(end) {
		w := f.waiters[0]
		f.waiters = f.waiters[1:]
		if w.at.After(f.now) {
			f.now = w.at
		}

		if w.period > 0 {
			w.at = w.at.Add(w.period)
			f.addLocked(w)
		}

		now := f.now
		f.lock.Unlock()
		w.fire(now)
		f.lock.Lock()
	}

	if end.After(f.now) {
		f.now = end
	}

	f.lock.Unlock()
}

func (f *Fake) schedule(d, period time.Duration, fn func()) *waiter {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.nextID++
	w := &waiter{
		fake:   f,
		id:     f.nextID,
		at:     f.now.Add(d),
		period: period,
		f:      fn,
	}

	if fn == nil {
		w.c = make(chan time.Time, 1)
	}

	f.addLocked(w)
	return w
}

// addLocked inserts w keeping waiters ordered by due time, then by creation order.
func (f *Fake) addLocked(w *waiter) {
	i := sort.Search(len(f.waiters), func(i int) bool {
		o := f.waiters[i]
		return o.at.After(w.at) || (o.at.Equal(w.at) && o.id > w.id)
	})

	f.waiters = append(f.waiters, nil)
	copy(f.waiters[i+1:], f.waiters[i:])
	f.waiters[i] = w
	f.added.Broadcast()
}

func (f *Fake) remove(w *waiter) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.removeLocked(w)
}

func (f *Fake) removeLocked(w *waiter) bool {
	for i, o := range f.waiters {
		if o == w {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return true
		}
	}

	return false
}
