package dispatch

import "context"

// Future carries the eventual result of a suspending operation. The
// operation keeps running regardless of how many callers await it or
// abandon the wait; cancelling an Await never cancels the work itself.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Async runs fn on its own goroutine and returns a Future for its result.
func Async[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn()
		close(f.done)
	}()
	return f
}

// Resolved returns an already-completed Future. Used for results that
// were computable without suspension.
func Resolved[T any](value T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value, err: err}
	close(f.done)
	return f
}

// Await blocks until the result is available or ctx is cancelled. On
// cancellation the wait is abandoned and ctx.Err() returned; the
// underlying operation continues for any remaining waiters.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports completion without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
