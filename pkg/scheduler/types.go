package scheduler

import (
	"context"
)

// Work runs on a worker. Its context is cancelled when the future is
// stopped or the scheduler is closed.
type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future delivers exactly one value on C.
type Future[T any] struct {
	ch     chan T
	cancel context.CancelFunc
}

func newFuture[T any](ch chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{ch: ch, cancel: cancel}
}

func (f *Future[T]) C() <-chan T {
	return f.ch
}

// Stop cancels the work's context. A value may still be delivered.
func (f *Future[T]) Stop() {
	f.cancel()
}

// Wait blocks for the value. If ctx ends first the work is stopped and
// ctx's error is returned.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case v := <-f.ch:
		return v, nil
	case <-ctx.Done():
		f.Stop()
		var zero T
		return zero, ctx.Err()
	}
}
