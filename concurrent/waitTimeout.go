// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"sync"
	"time"
)

// WaitTimeout performs a timed wait on a given sync.WaitGroup.  It returns false if the
// timeout elapsed first.
func WaitTimeout(waitGroup *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		waitGroup.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
