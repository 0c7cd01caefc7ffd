// Package fanout provides a broadcast queue: one upstream producer feeding N
// independently-advancing consumer queues keyed by an opaque session handle.
package fanout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/types"
)

// Queue broadcasts every written item to all subscribed sessions. Each
// session consumes its own queue at its own pace; readers never block each
// other. The reader count is exposed so the owner can detect when the last
// reader left and tear down the upstream subscription.
type Queue[T any] struct {
	mu     sync.Mutex
	queues map[types.Session][]T
	logger *logger.Logger
}

// NewQueue creates an empty fan-out queue.
func NewQueue[T any](log *logger.Logger) *Queue[T] {
	return &Queue[T]{
		queues: make(map[types.Session][]T),
		logger: log,
	}
}

// Subscribe creates the session's queue. Subscribing an already-subscribed
// session is a warning and a no-op; the existing queue is kept.
func (q *Queue[T]) Subscribe(session types.Session) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.queues[session]; exists {
		q.logger.Warn("Session already subscribed", zap.String("session", string(session)))

		return
	}

	q.queues[session] = nil
}

// Unsubscribe removes the session's queue and any undelivered items.
func (q *Queue[T]) Unsubscribe(session types.Session) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.queues[session]; !exists {
		q.logger.Warn("Unsubscribe for unknown session", zap.String("session", string(session)))

		return
	}

	delete(q.queues, session)
}

// Write broadcasts the item to every subscribed session's queue. Items are
// only seen by sessions subscribed at write time.
func (q *Queue[T]) Write(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for session := range q.queues {
		q.queues[session] = append(q.queues[session], item)
	}
}

// Read pops one item from the session's queue.
func (q *Queue[T]) Read(session types.Session) (T, bool) {
	items := q.ReadN(session, 1)
	if items == nil {
		var zero T

		return zero, false
	}

	return items[0], true
}

// ReadN pops exactly n items from the session's queue. It is all-or-nothing:
// if fewer than n items are buffered, nothing is consumed and nil is
// returned.
func (q *Queue[T]) ReadN(session types.Session, n int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, exists := q.queues[session]
	if !exists {
		q.logger.Warn("Read for unknown session", zap.String("session", string(session)))

		return nil
	}

	if n <= 0 || len(queue) < n {
		return nil
	}

	items := make([]T, n)
	copy(items, queue[:n])
	q.queues[session] = queue[n:]

	return items
}

// Drain pops every buffered item from the session's queue.
func (q *Queue[T]) Drain(session types.Session) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue, exists := q.queues[session]
	if !exists {
		q.logger.Warn("Drain for unknown session", zap.String("session", string(session)))

		return nil
	}

	q.queues[session] = nil

	return queue
}

// Len returns the number of items buffered for the session.
func (q *Queue[T]) Len(session types.Session) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queues[session])
}

// Readers returns the number of subscribed sessions.
func (q *Queue[T]) Readers() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queues)
}
