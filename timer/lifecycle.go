// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import "github.com/qmuntal/stateless"

type trigger uint8

const (
	triggerStart trigger = iota
	triggerPause
	triggerExpire
	triggerDispose
)

var triggerNames = [...]string{
	triggerStart:   "start",
	triggerPause:   "pause",
	triggerExpire:  "expire",
	triggerDispose: "dispose",
}

func (t trigger) String() string {
	return triggerNames[t]
}

// lifecycle is the transition table shared by both kinds of timer.  Triggers that are not
// permitted from the current state are never fired; callers check permits first and treat
// a refusal as a no-op.
//
// lifecycle is not safe for concurrent use.  Timers guard it with their own lock.
type lifecycle struct {
	sm *stateless.StateMachine
}

func newLifecycle() lifecycle {
	sm := stateless.NewStateMachine(Idle)

	sm.Configure(Idle).
		Permit(triggerStart, Active).
		Permit(triggerDispose, Disposed)

	sm.Configure(Active).
		Permit(triggerPause, Paused).
		Permit(triggerExpire, Disposed).
		Permit(triggerDispose, Disposed)

	sm.Configure(Paused).
		Permit(triggerStart, Active).
		Permit(triggerDispose, Disposed)

	sm.Configure(Disposed)

	return lifecycle{sm: sm}
}

func (l lifecycle) state() State {
	return l.sm.MustState().(State)
}

func (l lifecycle) permits(t trigger) bool {
	ok, err := l.sm.CanFire(t)
	return ok && err == nil
}

// fire transitions via t, returning the state that was left.  The caller must have
// checked permits.
func (l lifecycle) fire(t trigger) State {
	from := l.state()
	if err := l.sm.Fire(t); err != nil {
		// only reachable if a caller skipped permits
		panic(err)
	}

	return from
}
