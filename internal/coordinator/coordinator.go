// Package coordinator queues strategy requests and executes them on a
// bounded worker pool against whichever backend is active: the live venue
// client or the deterministic simulator.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/promise"
	"github.com/quantarc/tradegate/internal/services"
	"github.com/quantarc/tradegate/pkg/errors"
)

// Mode names the active backend.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeBacktest Mode = "backtest"
)

// Request is one unit of work. It runs on a worker goroutine against the
// backend that was active when the request was submitted.
type Request func(ctx context.Context, backend services.Backend) (any, error)

type task struct {
	backend services.Backend
	run     Request
	result  *promise.Builder[any]
}

// Coordinator owns the request queue, the dispatch loop and the worker
// pool. Backend swaps affect subsequent submissions only; queued requests
// keep the backend they were submitted with.
type Coordinator struct {
	cfg    config.CoordinatorConfig
	logger *logger.Logger

	queue chan *task
	tasks chan *task

	started  atomic.Bool
	stopped  atomic.Bool
	drained  chan struct{}
	workers  sync.WaitGroup
	baseCtx  context.Context
	stopWork context.CancelFunc

	mu       sync.RWMutex
	mode     Mode
	live     services.Backend
	backtest services.Backend
}

func New(cfg config.CoordinatorConfig, log *logger.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		cfg:      cfg,
		logger:   log,
		queue:    make(chan *task, cfg.QueueSize),
		tasks:    make(chan *task),
		drained:  make(chan struct{}),
		baseCtx:  ctx,
		stopWork: cancel,
		mode:     ModeBacktest,
	}
}

// RegisterLive installs the live backend triple.
func (c *Coordinator) RegisterLive(backend services.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = backend
}

// RegisterBacktest installs the simulator backend triple.
func (c *Coordinator) RegisterBacktest(backend services.Backend) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backtest = backend
}

// UseLive routes subsequent submissions to the live backend.
func (c *Coordinator) UseLive() {
	c.setMode(ModeLive)
}

// UseBacktest routes subsequent submissions to the simulator backend.
func (c *Coordinator) UseBacktest() {
	c.setMode(ModeBacktest)
}

func (c *Coordinator) setMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.logger.Info("backend switched", zap.String("mode", string(mode)))
}

// Mode returns the currently active backend mode.
func (c *Coordinator) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

func (c *Coordinator) currentBackend() services.Backend {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mode == ModeLive {
		return c.live
	}
	return c.backtest
}

// Start launches the dispatch loop and the worker pool. Starting twice is a
// no-op.
func (c *Coordinator) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < c.cfg.Workers; i++ {
		c.workers.Add(1)
		go c.worker()
	}
	go c.dispatch()
}

// Submit enqueues a request and returns the future its result will resolve
// on. The request is bound to the currently active backend. A full queue or
// a stopped coordinator rejects the submission.
func (c *Coordinator) Submit(run Request) (*promise.Builder[any], error) {
	if c.stopped.Load() {
		return nil, errors.New(errors.ErrCodeCoordinatorStopped, "coordinator is stopped")
	}

	t := &task{
		backend: c.currentBackend(),
		run:     run,
		result:  promise.NewBuilder[any](),
	}

	select {
	case c.queue <- t:
		return t.result, nil
	default:
		return nil, errors.Newf(errors.ErrCodeQueueFull, "request queue at capacity %d", c.cfg.QueueSize)
	}
}

// Execute submits a request and blocks for its result.
func (c *Coordinator) Execute(ctx context.Context, timeout time.Duration, run Request) (any, error) {
	result, err := c.Submit(run)
	if err != nil {
		return nil, err
	}
	return result.Wait(ctx, timeout)
}

// dispatch moves tasks from the queue to the workers. It polls with a short
// timeout so a stop request is observed even when the queue is idle, and
// only exits once the queue is drained.
func (c *Coordinator) dispatch() {
	defer close(c.drained)
	defer close(c.tasks)

	poll := c.cfg.PollInterval.Std()
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	for {
		select {
		case t := <-c.queue:
			c.tasks <- t
		case <-time.After(poll):
			if c.stopped.Load() && len(c.queue) == 0 {
				return
			}
		}
	}
}

func (c *Coordinator) worker() {
	defer c.workers.Done()

	for t := range c.tasks {
		value, err := t.run(c.baseCtx, t.backend)
		if err != nil {
			t.result.Fail(err)
			continue
		}
		t.result.Set(value)
		t.result.Resolve()
	}
}

// Shutdown stops intake, drains the queue, then waits up to the grace
// period for in-flight work before force-cancelling it.
func (c *Coordinator) Shutdown(grace time.Duration) {
	if !c.stopped.CompareAndSwap(false, true) {
		return
	}
	if !c.started.Load() {
		return
	}

	<-c.drained

	done := make(chan struct{})
	go func() {
		c.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("coordinator drained")
	case <-time.After(grace):
		c.logger.Warn("shutdown grace exceeded, cancelling in-flight work")
		c.stopWork()
		<-done
	}
}
