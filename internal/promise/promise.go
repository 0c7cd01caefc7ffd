// Package promise provides a future whose value can be amended several times
// before it is resolved. Venue callbacks that deliver results incrementally
// (account summary lines, contract details, positions) accumulate into the
// current value; a distinguished terminator event resolves the future with
// whatever value is held at that moment.
package promise

import (
	"context"
	"sync"
	"time"

	"github.com/quantarc/tradegate/pkg/errors"
)

// Builder is a future with a mutable in-flight value. The zero value is not
// usable; create one with NewBuilder.
type Builder[T any] struct {
	mu       sync.Mutex
	current  T
	err      error
	done     chan struct{}
	resolved bool
}

// NewBuilder creates an unresolved Builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{
		done: make(chan struct{}),
	}
}

// Set replaces the current value. No-op after resolution.
func (b *Builder[T]) Set(value T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return
	}

	b.current = value
}

// Amend mutates the current value through fn. No-op after resolution.
func (b *Builder[T]) Amend(fn func(T) T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return
	}

	b.current = fn(b.current)
}

// Resolve finalizes the future with whatever value is currently held.
// Subsequent Set/Amend/Resolve/Fail calls are no-ops.
func (b *Builder[T]) Resolve() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return
	}

	b.resolved = true
	close(b.done)
}

// Fail finalizes the future with an error.
func (b *Builder[T]) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return
	}

	b.err = err
	b.resolved = true
	close(b.done)
}

// Resolved reports whether the future has been finalized.
func (b *Builder[T]) Resolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.resolved
}

// Wait blocks until the future resolves, the timeout expires, or ctx is
// cancelled. A timeout resolves the wait with a TimeoutError; it is never
// escalated further.
func (b *Builder[T]) Wait(ctx context.Context, timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-b.done:
		b.mu.Lock()
		defer b.mu.Unlock()

		return b.current, b.err
	case <-timer.C:
		var zero T

		return zero, errors.Wrap(errors.ErrCodeRequestTimeout, "wait expired",
			errors.NewTimeoutError(0, timeout, "future did not resolve in time"))
	case <-ctx.Done():
		var zero T

		return zero, errors.Wrap(errors.ErrCodeRequestFailed, "wait cancelled", ctx.Err())
	}
}

// Value returns the current in-flight value without waiting.
func (b *Builder[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}
