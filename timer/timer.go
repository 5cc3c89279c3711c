// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"io"
	"sync"
)

// Interface is the behavior common to Repeating and OneShot timers.  Starting is not part of
// this interface because a Repeating timer's Start may block and so takes a context.
type Interface interface {
	io.Closer

	ID() string
	State() State
	Pause()
	Stop()
	Dispose()

	// Run starts the timer and disposes it once shutdown is closed.
	Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error
}

// run implements Runnable for both kinds of timer.
func run(t Interface, start func() error, waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	if err := start(); err != nil {
		return err
	}

	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		<-shutdown
		t.Dispose()
	}()

	return nil
}
