// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/lapse/clock"
	"github.com/xmidt-org/lapse/clock/clocktest"
	"github.com/xmidt-org/lapse/concurrent"
	"go.uber.org/zap"
)

func testNewOneShotDefaults(t *testing.T) {
	var (
		assert = assert.New(t)
		o      = NewOneShot(OneShotConfig{ID: "test"}, nil, WithLogger(zap.NewNop()))
	)

	assert.Equal("test", o.ID())
	assert.Equal(DefaultTimeout, o.Timeout())
	assert.Equal(Idle, o.State())
	assert.Zero(o.Remaining())
}

func testNewOneShotCustom(t *testing.T) {
	var (
		assert = assert.New(t)
		o      = NewOneShot(OneShotConfig{ID: "custom", Timeout: 2 * time.Second}, nil, WithLogger(zap.NewNop()))
	)

	assert.Equal("custom", o.ID())
	assert.Equal(2*time.Second, o.Timeout())
}

func testNewOneShotGeneratedID(t *testing.T) {
	var (
		assert = assert.New(t)
		first  = NewOneShot(OneShotConfig{}, nil)
		second = NewOneShot(OneShotConfig{}, nil)
	)

	assert.NotEmpty(first.ID())
	assert.NotEqual(first.ID(), second.ID())
}

func TestNewOneShot(t *testing.T) {
	t.Run("Defaults", testNewOneShotDefaults)
	t.Run("Custom", testNewOneShotCustom)
	t.Run("GeneratedID", testNewOneShotGeneratedID)
	t.Run("NonPositiveTimeout", func(t *testing.T) {
		assert.Equal(t, DefaultTimeout, NewOneShot(OneShotConfig{Timeout: -time.Second}, nil).Timeout())
	})
}

func TestOneShotFires(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		callback = new(counter)
		o        = NewOneShot(OneShotConfig{ID: "test"}, callback.call, fakeOptions(fake)...)
	)

	// nothing happens while idle
	fake.Advance(10 * DefaultTimeout)
	assert.Equal(Idle, o.State())
	assert.Zero(callback.count())

	o.Start()
	assert.Equal(Active, o.State())

	fake.Advance(DefaultTimeout - time.Millisecond)
	assert.Zero(callback.count())
	assert.Equal(Active, o.State())

	fake.Advance(time.Millisecond)
	assert.Equal(1, callback.count())
	assert.Equal(Disposed, o.State())
	assert.Zero(fake.Pending())

	// a fired timer cannot be restarted
	o.Start()
	fake.Advance(10 * DefaultTimeout)
	assert.Equal(1, callback.count())
	assert.Equal(Disposed, o.State())
}

func TestOneShotPause(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		callback = new(counter)
		o        = NewOneShot(OneShotConfig{}, callback.call, fakeOptions(fake)...)
	)

	o.Start()
	fake.Advance(400 * time.Millisecond)

	o.Pause()
	assert.Equal(Paused, o.State())
	assert.Equal(600*time.Millisecond, o.Remaining())

	o.Pause()
	assert.Equal(600*time.Millisecond, o.Remaining())

	fake.Advance(10 * DefaultTimeout)
	assert.Zero(callback.count())

	o.Resume()
	assert.Equal(Active, o.State())
	assert.Zero(o.Remaining())

	fake.Advance(300 * time.Millisecond)
	o.Pause()
	assert.Equal(300*time.Millisecond, o.Remaining())

	o.Start()
	fake.Advance(299 * time.Millisecond)
	assert.Zero(callback.count())

	fake.Advance(time.Millisecond)
	assert.Equal(1, callback.count())
	assert.Equal(Disposed, o.State())
}

func TestOneShotCustomValues(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		callback = new(counter)
		o        = NewOneShot(OneShotConfig{ID: "custom", Timeout: 2 * time.Second}, callback.call, fakeOptions(fake)...)
	)

	o.Start()
	fake.Advance(time.Second)
	o.Pause()
	fake.Advance(time.Minute)
	assert.Zero(callback.count())

	o.Start()
	fake.Advance(time.Second)
	assert.Equal(1, callback.count())
	assert.Equal(Disposed, o.State())
}

func TestOneShotDispose(t *testing.T) {
	for _, state := range []State{Idle, Active, Paused} {
		t.Run(state.String(), func(t *testing.T) {
			var (
				assert   = assert.New(t)
				fake     = clocktest.NewFake()
				callback = new(counter)
				o        = NewOneShot(OneShotConfig{}, callback.call, fakeOptions(fake)...)
			)

			switch state {
			case Active:
				o.Start()
			case Paused:
				o.Start()
				fake.Advance(DefaultTimeout / 2)
				o.Pause()
			}

			assert.Equal(state, o.State())
			o.Dispose()
			o.Stop()
			assert.NoError(o.Close())
			assert.Equal(Disposed, o.State())
			assert.Zero(fake.Pending())

			o.Start()
			o.Pause()
			fake.Advance(10 * DefaultTimeout)
			assert.Zero(callback.count())
			assert.Equal(Disposed, o.State())
		})
	}
}

func TestOneShotIgnoredTransitions(t *testing.T) {
	var (
		assert = assert.New(t)
		fake   = clocktest.NewFake()
		o      = NewOneShot(OneShotConfig{}, nil, fakeOptions(fake)...)
	)

	defer o.Close()

	o.Pause()
	assert.Equal(Idle, o.State())

	o.Start()
	o.Start()
	assert.Equal(Active, o.State())
	assert.Equal(1, fake.Pending())
}

func testOneShotFiringOrderActive(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		measures = newGenericMeasures()
		seen     State
		o        *OneShot
	)

	o = NewOneShot(OneShotConfig{}, func() {
		seen = o.State()

		// starting or pausing from the callback changes nothing
		o.Start()
		o.Pause()
	}, append(fakeOptions(fake), WithMeasures(measures))...)

	o.Start()
	fake.Advance(DefaultTimeout)
	assert.Equal(Active, seen)
	assert.Equal(Disposed, o.State())
	assert.Zero(o.Remaining())
	assert.Zero(fake.Pending())
	assert.Equal(1.0, value(measures.Fire))
	assert.Zero(value(measures.Pause))
	assert.Equal(1.0, value(measures.Dispose))

	o.Start()
	fake.Advance(10 * DefaultTimeout)
	assert.Equal(1.0, value(measures.Fire))
}

func testOneShotFiringOrderDispose(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		measures = newGenericMeasures()
		o        *OneShot
	)

	o = NewOneShot(OneShotConfig{}, func() {
		o.Dispose()
	}, append(fakeOptions(fake), WithMeasures(measures))...)

	o.Start()
	fake.Advance(DefaultTimeout)
	assert.Equal(Disposed, o.State())
	assert.Equal(1.0, value(measures.Dispose))
	assert.Zero(value(measures.Active))
}

func TestOneShotFiringOrder(t *testing.T) {
	t.Run("Active", testOneShotFiringOrderActive)
	t.Run("Dispose", testOneShotFiringOrderDispose)
}

func TestOneShotRenew(t *testing.T) {
	var (
		callback = new(counter)
		fake     = clocktest.NewFake()
		source   = NewOneShot(OneShotConfig{ID: "renew"}, callback.call, fakeOptions(fake)...)
	)

	t.Run("ID", func(t *testing.T) {
		assert.Equal(t, "renew1", source.Renew(OneShotConfig{ID: "renew1"}).ID())
		assert.Equal(t, "renew", source.Renew(OneShotConfig{}).ID())
	})

	t.Run("Timeout", func(t *testing.T) {
		assert.Equal(t, 2*time.Second, source.Renew(OneShotConfig{Timeout: 2 * time.Second}).Timeout())
		assert.Equal(t, DefaultTimeout, source.Renew(OneShotConfig{}).Timeout())
	})

	t.Run("AfterFiring", func(t *testing.T) {
		var (
			assert = assert.New(t)
			o      = source.Renew(OneShotConfig{Timeout: 10 * time.Millisecond})
		)

		o.Start()
		fake.Advance(10 * time.Millisecond)
		assert.Equal(Disposed, o.State())
		assert.Equal(1, callback.count())

		renewed := o.Renew(OneShotConfig{})
		assert.Equal(Idle, renewed.State())
		assert.Equal(10*time.Millisecond, renewed.Timeout())

		renewed.Start()
		fake.Advance(10 * time.Millisecond)
		assert.Equal(2, callback.count())
	})

	t.Run("AnyState", func(t *testing.T) {
		var (
			assert = assert.New(t)
			o      = source.Renew(OneShotConfig{})
		)

		defer o.Close()

		o.Start()
		assert.Equal(Idle, o.Renew(OneShotConfig{}).State())

		o.Pause()
		assert.Equal(Idle, o.Renew(OneShotConfig{}).State())
		assert.Equal(Paused, o.State())
	})
}

func TestOneShotMeasures(t *testing.T) {
	var (
		assert   = assert.New(t)
		fake     = clocktest.NewFake()
		measures = newGenericMeasures()
		o        = NewOneShot(OneShotConfig{}, nil, append(fakeOptions(fake), WithMeasures(measures))...)
	)

	o.Start()
	assert.Equal(1.0, value(measures.Active))

	o.Pause()
	o.Start()
	fake.Advance(DefaultTimeout)
	o.Dispose()

	assert.Equal(2.0, value(measures.Start))
	assert.Equal(1.0, value(measures.Pause))
	assert.Equal(1.0, value(measures.Dispose))
	assert.Equal(1.0, value(measures.Fire))
	assert.Zero(value(measures.Active))
}

func TestOneShotNativeHandle(t *testing.T) {
	var (
		assert = assert.New(t)
		t0     = clocktest.Epoch
		c      = new(clocktest.Mock)
		first  = new(clocktest.MockTimer)
		second = new(clocktest.MockTimer)
		fires  []func()
	)

	capture := func(args mock.Arguments) {
		fires = append(fires, args.Get(1).(func()))
	}

	c.OnAfterFunc(DefaultTimeout, first).Once().Run(capture)
	c.OnAfterFunc(750*time.Millisecond, second).Once().Run(capture)
	c.OnNow(t0).Once()
	c.OnNow(t0.Add(250 * time.Millisecond)).Once()
	c.OnNow(t0.Add(time.Hour)).Once()
	first.OnStop(true).Once()

	callback := new(counter)
	o := NewOneShot(OneShotConfig{}, callback.call, WithClock(c), WithLogger(zap.NewNop()))

	o.Start()
	o.Pause()
	assert.Equal(750*time.Millisecond, o.Remaining())

	o.Start()
	if assert.Len(fires, 2) {
		// the call that raced with Pause is discarded
		fires[0]()
		assert.Zero(callback.count())
		assert.Equal(Active, o.State())

		fires[1]()
		assert.Equal(1, callback.count())
		assert.Equal(Disposed, o.State())

		fires[1]()
		assert.Equal(1, callback.count())
	}

	// nothing to stop once fired
	o.Dispose()

	c.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestOneShotRun(t *testing.T) {
	var (
		assert = assert.New(t)
		fake   = clocktest.NewFake()
		o      = NewOneShot(OneShotConfig{}, nil, fakeOptions(fake)...)
	)

	scope, err := concurrent.Execute(o)
	assert.NoError(err)
	assert.Equal(Active, o.State())

	assert.True(scope.CloseTimeout(5 * time.Second))
	assert.Equal(Disposed, o.State())
	assert.Zero(fake.Pending())
}

func TestOneShotSystemClock(t *testing.T) {
	var (
		require = require.New(t)
		fired   = make(chan struct{})
		o       = NewOneShot(OneShotConfig{Timeout: 5 * time.Millisecond}, func() { close(fired) }, WithClock(clock.System()), WithLogger(zap.NewNop()))
	)

	o.Start()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		require.FailNow("the timer did not fire")
	}

	require.Equal(Disposed, o.State())
}
