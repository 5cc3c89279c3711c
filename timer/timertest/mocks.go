// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package timertest

import (
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/lapse/timer"
)

// Mock is a stretchr mock for timer.Interface
type Mock struct {
	mock.Mock
}

var _ timer.Interface = (*Mock)(nil)

func (m *Mock) ID() string {
	return m.Called().String(0)
}

func (m *Mock) OnID(id string) *mock.Call {
	return m.On("ID").Return(id)
}

func (m *Mock) State() timer.State {
	return m.Called().Get(0).(timer.State)
}

func (m *Mock) OnState(s timer.State) *mock.Call {
	return m.On("State").Return(s)
}

func (m *Mock) Pause() {
	m.Called()
}

func (m *Mock) OnPause() *mock.Call {
	return m.On("Pause")
}

func (m *Mock) Stop() {
	m.Called()
}

func (m *Mock) OnStop() *mock.Call {
	return m.On("Stop")
}

func (m *Mock) Dispose() {
	m.Called()
}

func (m *Mock) OnDispose() *mock.Call {
	return m.On("Dispose")
}

func (m *Mock) Close() error {
	return m.Called().Error(0)
}

func (m *Mock) OnClose(err error) *mock.Call {
	return m.On("Close").Return(err)
}

func (m *Mock) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	return m.Called(waitGroup, shutdown).Error(0)
}

func (m *Mock) OnRun(err error) *mock.Call {
	return m.On("Run", mock.Anything, mock.Anything).Return(err)
}
