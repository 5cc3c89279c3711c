// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timer

import (
	"errors"
	"fmt"
)

// State is the lifecycle state of a timer.
type State uint8

const (
	// Idle is the state of a newly created timer.
	Idle State = iota

	// Active means the timer has a live schedule with the underlying clock.
	Active

	// Paused means the timer was stopped with the intent of resuming later.
	Paused

	// Disposed is terminal.  Nothing leaves this state.
	Disposed
)

var stateNames = [...]string{
	Idle:     "idle",
	Active:   "active",
	Paused:   "paused",
	Disposed: "disposed",
}

var errInvalidState = errors.New("invalid timer state")

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("State(%d)", s)
}

func (s State) MarshalText() ([]byte, error) {
	if int(s) >= len(stateNames) {
		return nil, fmt.Errorf("%w: %d", errInvalidState, s)
	}

	return []byte(stateNames[s]), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}

	return fmt.Errorf("%w: %q", errInvalidState, text)
}
