// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"os"
	"sync"
	"time"
)

// Runnable represents any operation that can spawn zero or more goroutines.
type Runnable interface {
	// Run starts this operation, returning an error if it could not be started.  Any goroutine
	// spawned must be accounted for in waitGroup and must exit once shutdown is closed.
	Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error
}

// RunnableFunc is a function type that implements Runnable
type RunnableFunc func(*sync.WaitGroup, <-chan struct{}) error

func (r RunnableFunc) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	return r(waitGroup, shutdown)
}

// RunnableSet runs each element in order, stopping at the first error.  Elements
// started before the failure remain tied to the same shutdown channel.
type RunnableSet []Runnable

func (set RunnableSet) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	for _, r := range set {
		if err := r.Run(waitGroup, shutdown); err != nil {
			return err
		}
	}

	return nil
}

// Scope is the pair of synchronization objects produced by Execute.
type Scope struct {
	waitGroup *sync.WaitGroup
	shutdown  chan struct{}
	once      sync.Once
}

// Execute creates a Scope and runs r within it.  The Scope is returned even when Run fails,
// so that whatever did start can still be shut down.
func Execute(r Runnable) (*Scope, error) {
	s := &Scope{
		waitGroup: new(sync.WaitGroup),
		shutdown:  make(chan struct{}),
	}

	return s, r.Run(s.waitGroup, s.shutdown)
}

// Close signals shutdown and waits for every goroutine in this scope to exit.  It is idempotent
// and always returns nil, which lets a Scope be used as an io.Closer.
func (s *Scope) Close() error {
	s.once.Do(func() { close(s.shutdown) })
	s.waitGroup.Wait()
	return nil
}

// CloseTimeout is like Close, but gives up waiting after timeout.  It returns true if every
// goroutine exited in time.
func (s *Scope) CloseTimeout(timeout time.Duration) bool {
	s.once.Do(func() { close(s.shutdown) })
	return WaitTimeout(s.waitGroup, timeout)
}

// Await executes r, then blocks until something arrives on signals before closing the Scope.
// The received signal is returned, or nil if r could not be started.
func Await(r Runnable, signals <-chan os.Signal) (os.Signal, error) {
	s, err := Execute(r)
	if err != nil {
		s.Close()
		return nil, err
	}

	signal := <-signals
	return signal, s.Close()
}
