// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Interface represents a clock with the same core functionality available as in the stdlib time package,
// plus callback-style scheduling.
type Interface interface {
	Now() time.Time
	Sleep(time.Duration)
	NewTicker(time.Duration) Ticker
	NewTimer(time.Duration) Timer

	// AfterFunc invokes f once, in its own goroutine, after d has elapsed.  The returned
	// Timer's Stop cancels the call if it has not happened yet.
	AfterFunc(d time.Duration, f func()) Timer

	// TickFunc invokes f every d until the returned Ticker is stopped.  The first
	// invocation happens d after this method is called.  d must be positive.
	TickFunc(d time.Duration, f func()) Ticker
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (sc systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

func (sc systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

func (sc systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return systemTimer{time.AfterFunc(d, f)}
}

func (sc systemClock) TickFunc(d time.Duration, f func()) Ticker {
	ft := &funcTicker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}

	go ft.run(f)
	return ft
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
