package mocks

import (
	"context"

	"github.com/bnema/bbscapade/internal/ports"
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a testify mock of ports.Generator with a typed expecter.
type MockGenerator struct {
	mock.Mock
}

type MockGenerator_Expecter struct {
	mock *mock.Mock
}

func (_m *MockGenerator) EXPECT() *MockGenerator_Expecter {
	return &MockGenerator_Expecter{mock: &_m.Mock}
}

func (_m *MockGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	ret := _m.Called(ctx, req)
	if len(ret) == 0 {
		panic("no return value specified for Generate")
	}

	if fn, ok := ret.Get(0).(func(context.Context, ports.GenerateRequest) (string, error)); ok {
		return fn(ctx, req)
	}
	return ret.String(0), ret.Error(1)
}

type MockGenerator_Generate_Call struct {
	*mock.Call
}

func (_e *MockGenerator_Expecter) Generate(ctx interface{}, req interface{}) *MockGenerator_Generate_Call {
	return &MockGenerator_Generate_Call{Call: _e.mock.On("Generate", ctx, req)}
}

func (_c *MockGenerator_Generate_Call) Return(text string, err error) *MockGenerator_Generate_Call {
	_c.Call.Return(text, err)
	return _c
}

func (_c *MockGenerator_Generate_Call) RunAndReturn(run func(context.Context, ports.GenerateRequest) (string, error)) *MockGenerator_Generate_Call {
	_c.Call.Return(run)
	return _c
}

func (_c *MockGenerator_Generate_Call) Times(n int) *MockGenerator_Generate_Call {
	_c.Call.Times(n)
	return _c
}

func (_c *MockGenerator_Generate_Call) Once() *MockGenerator_Generate_Call {
	_c.Call.Once()
	return _c
}

// NewMockGenerator registers AssertExpectations as a test cleanup.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
