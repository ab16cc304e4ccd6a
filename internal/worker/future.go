package worker

import (
	"context"
	"fmt"
)

// Future is the pending result of work submitted to a Pool.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete.
func Resolved[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(value, err)
	return f
}

func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is ready or ctx ends. Giving up on a future
// does not stop the work already handed to a worker.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit runs fn on one of the pool's workers and returns immediately. ctx is
// passed through to fn; it also bounds how long Submit waits for queue space.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()

	err := p.enqueue(ctx, func() {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in worker: %v", r)
			}
			f.complete(value, err)
		}()
		value, err = fn(ctx)
	})
	if err != nil {
		var zero T
		f.complete(zero, err)
	}
	return f
}
