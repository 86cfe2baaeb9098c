package dispatch

import (
	"context"
	"errors"
	"testing"
)

type handlerFunc func(ctx context.Context, event any) error

func (f handlerFunc) Handle(ctx context.Context, event any) error { return f(ctx, event) }

func TestExecutor_Success(t *testing.T) {
	e := NewExecutor()
	var seen any
	result := e.Execute(context.Background(), "evt", handlerFunc(func(_ context.Context, ev any) error {
		seen = ev
		return nil
	}))

	if !result.IsSuccess() {
		t.Errorf("expected success, got %+v", result)
	}
	if seen != "evt" {
		t.Errorf("handler saw %v", seen)
	}
}

func TestExecutor_Error(t *testing.T) {
	e := NewExecutor()
	errTest := errors.New("test")
	result := e.Execute(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		return errTest
	}))

	if result.Success || !errors.Is(result.Error, errTest) {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestExecutor_Panic(t *testing.T) {
	var got any
	e := NewExecutor(WithExecutorPanicHandler(func(_ any, v any, stack []byte) {
		got = v
		if len(stack) == 0 {
			t.Error("expected a stack trace")
		}
	}))

	result := e.Execute(context.Background(), nil, handlerFunc(func(context.Context, any) error {
		panic("boom")
	}))

	if !result.Panicked || result.PanicValue != "boom" || result.IsSuccess() {
		t.Errorf("unexpected result %+v", result)
	}
	if got != "boom" {
		t.Errorf("panic handler got %v", got)
	}
}

func TestExecutor_CancelledContext(t *testing.T) {
	e := NewExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	result := e.Execute(ctx, nil, handlerFunc(func(context.Context, any) error {
		called = true
		return nil
	}))

	if called {
		t.Error("handler should not run on a cancelled context")
	}
	if !result.Skipped || !errors.Is(result.Error, context.Canceled) {
		t.Errorf("unexpected result %+v", result)
	}
}
