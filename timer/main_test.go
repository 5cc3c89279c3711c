// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/lapse/clock/clocktest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// counter is a callback that counts its invocations
type counter struct {
	n int32
}

func (c *counter) call() {
	atomic.AddInt32(&c.n, 1)
}

func (c *counter) count() int {
	return int(atomic.LoadInt32(&c.n))
}

// fakeOptions produces options that schedule against f and log nowhere
func fakeOptions(f *clocktest.Fake) []Option {
	return []Option{
		WithClock(f),
		WithLogger(zap.NewNop()),
	}
}

func newGenericMeasures() *Measures {
	return &Measures{
		Start:   generic.NewCounter(StartCounter),
		Pause:   generic.NewCounter(PauseCounter),
		Dispose: generic.NewCounter(DisposeCounter),
		Fire:    generic.NewCounter(FireCounter),
		Active:  generic.NewGauge(ActiveGauge),
	}
}

// value reads a generic counter or gauge
func value(m interface{}) float64 {
	switch v := m.(type) {
	case *generic.Counter:
		return v.Value()
	case *generic.Gauge:
		return v.Value()
	default:
		panic("not a generic metric")
	}
}

// async runs f on another goroutine, returning a channel that receives its result
func async(f func() error) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- f()
	}()

	return result
}

// await waits for an async result, failing the test if it takes too long
func await(t *testing.T, result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for a result")
		return nil
	}
}
