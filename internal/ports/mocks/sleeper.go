package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockSleeper is a testify mock of ports.Sleeper with a typed expecter.
type MockSleeper struct {
	mock.Mock
}

type MockSleeper_Expecter struct {
	mock *mock.Mock
}

func (_m *MockSleeper) EXPECT() *MockSleeper_Expecter {
	return &MockSleeper_Expecter{mock: &_m.Mock}
}

func (_m *MockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	ret := _m.Called(ctx, d)
	if len(ret) == 0 {
		panic("no return value specified for Sleep")
	}

	if fn, ok := ret.Get(0).(func(context.Context, time.Duration) error); ok {
		return fn(ctx, d)
	}
	return ret.Error(0)
}

type MockSleeper_Sleep_Call struct {
	*mock.Call
}

func (_e *MockSleeper_Expecter) Sleep(ctx interface{}, d interface{}) *MockSleeper_Sleep_Call {
	return &MockSleeper_Sleep_Call{Call: _e.mock.On("Sleep", ctx, d)}
}

func (_c *MockSleeper_Sleep_Call) Return(err error) *MockSleeper_Sleep_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockSleeper_Sleep_Call) RunAndReturn(run func(context.Context, time.Duration) error) *MockSleeper_Sleep_Call {
	_c.Call.Return(run)
	return _c
}

func (_c *MockSleeper_Sleep_Call) Once() *MockSleeper_Sleep_Call {
	_c.Call.Once()
	return _c
}

func NewMockSleeper(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSleeper {
	m := &MockSleeper{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
