// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitTimeout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		waitGroup := new(sync.WaitGroup)
		waitGroup.Add(1)
		go func() {
			time.Sleep(10 * time.Millisecond)
			waitGroup.Done()
		}()

		assert.True(t, WaitTimeout(waitGroup, 5*time.Second))
	})

	t.Run("Timeout", func(t *testing.T) {
		var (
			waitGroup = new(sync.WaitGroup)
			release   = make(chan struct{})
		)

		waitGroup.Add(1)
		go func() {
			<-release
			waitGroup.Done()
		}()

		assert.False(t, WaitTimeout(waitGroup, 20*time.Millisecond))
		close(release)
		assert.True(t, WaitTimeout(waitGroup, 5*time.Second))
	})
}
