package broker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/pkg/errors"
)

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHandshake
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingHandshake:
		return "awaiting-handshake"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Handler consumes inbound messages once the handshake is done. The
// connection handles nextValidId itself; everything else is forwarded.
type Handler func(msg wire.Message)

// Connection manages one logical session with the venue gateway: dialing,
// the startApi handshake, a single reader pump and fixed-delay reconnects.
// Transient failures are logged and retried, never raised to callers.
type Connection struct {
	cfg     config.ConnectionConfig
	dialer  Dialer
	logger  *logger.Logger
	handler Handler

	state            atomic.Int32
	connecting       atomic.Bool
	readerStarted    atomic.Bool
	manualDisconnect atomic.Bool

	// nextReqID is the shared request/order ID counter, seeded by the
	// handshake's nextValidId.
	nextReqID atomic.Int64

	mu         sync.Mutex
	transport  Transport
	retryTimer *time.Timer
	handshake  chan struct{}
}

func NewConnection(cfg config.ConnectionConfig, dialer Dialer, handler Handler, log *logger.Logger) *Connection {
	return &Connection{
		cfg:     cfg,
		dialer:  dialer,
		logger:  log,
		handler: handler,
	}
}

// URL builds the gateway endpoint from the configured host and port.
func (c *Connection) URL() string {
	return fmt.Sprintf("ws://%s:%d/ws", c.cfg.Host, c.cfg.Port)
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// IsConnected reports whether the handshake has completed.
func (c *Connection) IsConnected() bool {
	return c.State() == StateConnected
}

// NextRequestID returns a fresh request/order ID from the shared counter.
func (c *Connection) NextRequestID() int64 {
	return c.nextReqID.Add(1)
}

// Connect clears a previous manual disconnect and schedules an immediate
// connection attempt. It returns without waiting for the attempt.
func (c *Connection) Connect() {
	c.manualDisconnect.Store(false)
	go c.attempt()
}

// Disconnect permanently closes the session. No reconnect is scheduled until
// Connect is called again.
func (c *Connection) Disconnect() {
	c.manualDisconnect.Store(true)

	c.mu.Lock()
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	transport := c.transport
	c.transport = nil
	c.mu.Unlock()

	if transport != nil {
		if err := transport.Close(); err != nil {
			c.logger.Debug("close transport", zap.Error(err))
		}
	}
	c.state.Store(int32(StateDisconnected))
}

// Send writes one message on the current transport.
func (c *Connection) Send(msg wire.Message) error {
	c.mu.Lock()
	transport := c.transport
	c.mu.Unlock()

	if transport == nil || !c.IsConnected() {
		return errors.New(errors.ErrCodeNotConnected, "not connected to venue")
	}
	return transport.Send(msg)
}

// attempt runs one connection attempt. Overlapping attempts collapse into
// one via the connecting guard.
func (c *Connection) attempt() {
	if c.manualDisconnect.Load() || c.IsConnected() {
		return
	}
	if !c.connecting.CompareAndSwap(false, true) {
		return
	}
	defer c.connecting.Store(false)

	c.state.Store(int32(StateConnecting))

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DialWindow.Std())
	defer cancel()

	transport, err := c.dialer(ctx, c.URL())
	if err != nil {
		c.logger.Warn("venue dial failed", zap.String("url", c.URL()), zap.Error(err))
		c.state.Store(int32(StateDisconnected))
		c.scheduleRetry()
		return
	}

	handshake := make(chan struct{})

	c.mu.Lock()
	c.transport = transport
	c.handshake = handshake
	c.mu.Unlock()

	c.state.Store(int32(StateAwaitingHandshake))

	if err := transport.Send(wire.Message{Kind: wire.KindStartAPI, ClientID: c.cfg.ClientID}); err != nil {
		c.logger.Warn("handshake send failed", zap.Error(err))
		c.dropTransport(transport)
		c.scheduleRetry()
		return
	}

	if c.readerStarted.CompareAndSwap(false, true) {
		go c.readLoop(transport)
	}

	select {
	case <-handshake:
		c.state.Store(int32(StateConnected))
		c.logger.Info("connected to venue",
			zap.String("url", c.URL()), zap.Int("clientId", c.cfg.ClientID))
	case <-time.After(c.cfg.HandshakeWindow.Std()):
		c.logger.Warn("handshake timed out", zap.String("url", c.URL()))
		c.dropTransport(transport)
		c.scheduleRetry()
	}
}

// readLoop pumps inbound frames until the transport fails. Exactly one read
// loop runs at a time.
func (c *Connection) readLoop(transport Transport) {
	defer c.readerStarted.Store(false)

	for {
		msg, err := transport.Receive()
		if err != nil {
			if c.manualDisconnect.Load() {
				return
			}
			c.logger.Warn("venue connection lost", zap.Error(err))
			c.dropTransport(transport)
			c.scheduleRetry()
			return
		}
		c.dispatch(msg)
	}
}

func (c *Connection) dispatch(msg wire.Message) {
	if msg.Kind == wire.KindNextValidID {
		// Seed the counter so NextRequestID hands out the venue's next
		// valid ID first.
		c.nextReqID.Store(msg.OrderID - 1)

		c.mu.Lock()
		handshake := c.handshake
		c.handshake = nil
		c.mu.Unlock()

		if handshake != nil {
			close(handshake)
		}
		return
	}

	if c.handler != nil {
		c.handler(msg)
	}
}

// dropTransport closes the transport and marks the session disconnected, but
// only if it is still the current one.
func (c *Connection) dropTransport(transport Transport) {
	c.mu.Lock()
	if c.transport == transport {
		c.transport = nil
	}
	c.mu.Unlock()

	if err := transport.Close(); err != nil {
		c.logger.Debug("close transport", zap.Error(err))
	}
	c.state.Store(int32(StateDisconnected))
}

// scheduleRetry arms the fixed-delay reconnect timer unless the disconnect
// was manual or a retry is already pending.
func (c *Connection) scheduleRetry() {
	if c.manualDisconnect.Load() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.retryTimer != nil {
		return
	}

	delay := c.cfg.ReconnectDelay.Std()
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		c.mu.Unlock()
		c.attempt()
	})
	c.logger.Info("reconnect scheduled", zap.Duration("delay", delay))
}
