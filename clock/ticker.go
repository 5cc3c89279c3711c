// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Ticker is the analog of time.Ticker.  Stop is idempotent.  Tickers created via
// TickFunc never send on C.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTicker struct {
	*time.Ticker
}

func (st systemTicker) C() <-chan time.Time {
	return st.Ticker.C
}

// WrapTicker wraps a time.Ticker in a clock.Ticker.
func WrapTicker(t *time.Ticker) Ticker {
	return systemTicker{t}
}

// funcTicker drives a callback from a time.Ticker on a dedicated goroutine.
type funcTicker struct {
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

var neverTicks = make(chan time.Time)

func (ft *funcTicker) C() <-chan time.Time {
	return neverTicks
}

func (ft *funcTicker) Stop() {
	ft.stopOnce.Do(func() {
		ft.ticker.Stop()
		close(ft.done)
	})
}

func (ft *funcTicker) run(f func()) {
	for {
		select {
		case <-ft.done:
			return

		case <-ft.ticker.C:
			// a tick may race with Stop
			select {
			case <-ft.done:
				return
			default:
				f()
			}
		}
	}
}
