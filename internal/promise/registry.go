package promise

import (
	"sync"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/pkg/errors"
)

// Registry correlates numeric request IDs with pending futures. Exactly one
// pending request may exist per ID; re-registering an in-flight ID is
// rejected. Callbacks addressing an unknown ID are logged as warnings, not
// treated as errors, since a late callback after a timed-out request is
// expected traffic.
type Registry[T any] struct {
	mu      sync.Mutex
	pending map[int64]*Builder[T]
	logger  *logger.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry[T any](log *logger.Logger) *Registry[T] {
	return &Registry[T]{
		pending: make(map[int64]*Builder[T]),
		logger:  log,
	}
}

// Register creates a pending future for the given request ID.
func (r *Registry[T]) Register(requestID int64) (*Builder[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[requestID]; exists {
		return nil, errors.Newf(errors.ErrCodeDuplicateRequest,
			"request %d is already in flight", requestID)
	}

	builder := NewBuilder[T]()
	r.pending[requestID] = builder

	return builder, nil
}

// Unregister removes the pending entry for the given request ID, if any.
func (r *Registry[T]) Unregister(requestID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, requestID)
}

// Set replaces the in-flight value of the pending request.
func (r *Registry[T]) Set(requestID int64, value T) {
	if builder, ok := r.lookup(requestID, "set"); ok {
		builder.Set(value)
	}
}

// Amend mutates the in-flight value of the pending request.
func (r *Registry[T]) Amend(requestID int64, fn func(T) T) {
	if builder, ok := r.lookup(requestID, "amend"); ok {
		builder.Amend(fn)
	}
}

// Complete resolves the pending request with its current value.
func (r *Registry[T]) Complete(requestID int64) {
	if builder, ok := r.lookup(requestID, "complete"); ok {
		builder.Resolve()
	}
}

// Fail resolves the pending request with an error.
func (r *Registry[T]) Fail(requestID int64, err error) {
	if builder, ok := r.lookup(requestID, "fail"); ok {
		builder.Fail(err)
	}
}

// Has reports whether a request is in flight for the given ID.
func (r *Registry[T]) Has(requestID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pending[requestID]

	return ok
}

// Len returns the number of in-flight requests.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

func (r *Registry[T]) lookup(requestID int64, op string) (*Builder[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	builder, ok := r.pending[requestID]
	if !ok {
		r.logger.Warn("Callback for unknown request id",
			zap.Int64("request_id", requestID),
			zap.String("op", op),
		)

		return nil, false
	}

	return builder, true
}
