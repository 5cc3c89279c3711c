// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package timer provides pausable, resumable, disposable timers built on a clock.Interface.

A Repeating timer invokes its callback every period until it is paused or disposed.  A OneShot
timer invokes its callback once, after its timeout, and then disposes itself.  Both start out
Idle, and both keep exact accounting of elapsed time across any number of Pause/Start cycles.

Control methods never fail.  Calling a method that does not apply to the current state, such as
pausing an Idle timer or starting a Disposed one, does nothing at all, and is indistinguishable
from a call that succeeded.

A Repeating timer has two resume policies, selected when it is created:

	exact == false (the default): Start from Paused first blocks for what was left of the
	interrupted period, and only then arms the regular cadence with a full period.  The
	timer stays Paused while Start is blocked.

	exact == true: Start from Paused rearms immediately with a full period.  The phase is
	reset to the resume instant.

Timers are io.Closers, so a timer's lifetime can be tied to a scope:

	t := timer.NewOneShot(timer.OneShotConfig{Timeout: time.Second}, onTimeout)
	defer t.Close()
	t.Start()
*/
package timer
