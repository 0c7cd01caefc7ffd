package broker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/fanout"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/promise"
	"github.com/quantarc/tradegate/internal/services"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// positionsRequestID is the one reserved correlation slot for position
// requests. The venue reports positions without a request ID, so only one
// may be outstanding at a time.
const positionsRequestID int64 = -1

// feedEntry is the per-contract market data subscription: one venue stream
// fanned out to any number of session readers, each with its own resample
// progress.
type feedEntry struct {
	tickerID int64
	contract types.Contract
	queue    *fanout.Queue[types.Bar]
	resample map[types.Session]*liveResample
}

// Client is the live venue backend. One Client owns one Connection and
// implements the account, data feed and order services over it.
type Client struct {
	cfg    config.ConnectionConfig
	conn   *Connection
	logger *logger.Logger

	summaries *promise.Registry[[]types.AccountValue]
	positions *promise.Registry[[]types.Position]
	pnl       *promise.Registry[types.PnL]
	contracts *promise.Registry[[]types.Contract]

	feedMu sync.Mutex
	feeds  map[types.FeedKey]*feedEntry

	orderMu sync.Mutex
	orders  map[int64]*types.OrderState
}

var (
	_ services.AccountService  = (*Client)(nil)
	_ services.DataFeedService = (*Client)(nil)
	_ services.OrderService    = (*Client)(nil)
)

func NewClient(cfg config.ConnectionConfig, dialer Dialer, log *logger.Logger) *Client {
	c := &Client{
		cfg:       cfg,
		logger:    log,
		summaries: promise.NewRegistry[[]types.AccountValue](log),
		positions: promise.NewRegistry[[]types.Position](log),
		pnl:       promise.NewRegistry[types.PnL](log),
		contracts: promise.NewRegistry[[]types.Contract](log),
		feeds:     make(map[types.FeedKey]*feedEntry),
		orders:    make(map[int64]*types.OrderState),
	}
	c.conn = NewConnection(cfg, dialer, c.handle, log)
	return c
}

// Connect starts the connection lifecycle. It returns immediately; requests
// fail with a not-connected error until the handshake completes.
func (c *Client) Connect() {
	c.conn.Connect()
}

// Disconnect permanently closes the venue session.
func (c *Client) Disconnect() {
	c.conn.Disconnect()
}

func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// Backend bundles the client behind the shared service contract.
func (c *Client) Backend() services.Backend {
	return services.Backend{Account: c, Feed: c, Orders: c}
}

func (c *Client) requestTimeout() time.Duration {
	return c.cfg.RequestTimeout.Std()
}

// handle dispatches one inbound message to the owning subsystem.
func (c *Client) handle(msg wire.Message) {
	switch msg.Kind {
	case wire.KindAccountSummary:
		if msg.AccountValue == nil {
			return
		}
		value := *msg.AccountValue
		c.summaries.Amend(msg.ReqID, func(values []types.AccountValue) []types.AccountValue {
			return append(values, value)
		})

	case wire.KindAccountSummaryEnd:
		c.summaries.Complete(msg.ReqID)

	case wire.KindPosition:
		if msg.Position == nil {
			return
		}
		position := *msg.Position
		c.positions.Amend(positionsRequestID, func(positions []types.Position) []types.Position {
			return append(positions, position)
		})

	case wire.KindPositionEnd:
		c.positions.Complete(positionsRequestID)

	case wire.KindPnL, wire.KindPnLSingle:
		if msg.PnL == nil {
			return
		}
		// The stream keeps ticking until cancelled; the first update
		// resolves the wait.
		c.pnl.Set(msg.ReqID, *msg.PnL)
		c.pnl.Complete(msg.ReqID)

	case wire.KindContractDetails:
		if msg.Contract == nil {
			return
		}
		contract := *msg.Contract
		c.contracts.Amend(msg.ReqID, func(contracts []types.Contract) []types.Contract {
			return append(contracts, contract)
		})

	case wire.KindContractDetailsEnd:
		c.contracts.Complete(msg.ReqID)

	case wire.KindRealtimeBar:
		c.handleRealtimeBar(msg)

	case wire.KindOrderStatus:
		c.handleOrderStatus(msg)

	case wire.KindExecDetails:
		c.handleExecDetails(msg)

	case wire.KindExecDetailsEnd:
		c.handleExecDetailsEnd(msg)

	case wire.KindCommissionReport:
		c.handleCommission(msg)

	case wire.KindError:
		c.handleError(msg)

	default:
		c.logger.Debug("ignoring message", zap.String("kind", string(msg.Kind)))
	}
}

// handleError routes a venue error to whichever request owns the ID.
// Notices are informational and never fail anything.
func (c *Client) handleError(msg wire.Message) {
	if msg.Error == nil {
		return
	}
	if msg.Error.Notice() {
		c.logger.Info("venue notice",
			zap.Int("code", msg.Error.Code), zap.String("text", msg.Error.Text))
		return
	}

	err := venueError(*msg.Error)
	c.logger.Warn("venue error",
		zap.Int64("reqId", msg.ReqID),
		zap.Int("code", msg.Error.Code),
		zap.String("text", msg.Error.Text))

	switch {
	case c.summaries.Has(msg.ReqID):
		c.summaries.Fail(msg.ReqID, err)
	case c.pnl.Has(msg.ReqID):
		c.pnl.Fail(msg.ReqID, err)
	case c.contracts.Has(msg.ReqID):
		c.contracts.Fail(msg.ReqID, err)
	case c.positions.Has(positionsRequestID) && msg.ReqID == 0:
		c.positions.Fail(positionsRequestID, err)
	default:
		c.failOrder(msg.ReqID, err)
	}
}

func (c *Client) failOrder(orderID int64, err error) {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	state, ok := c.orders[orderID]
	if !ok {
		return
	}
	state.Status = types.OrderStatusCancelled
	state.ExecutionsComplete = true
	delete(c.orders, orderID)

	c.logger.Warn("order rejected by venue", zap.Int64("orderId", orderID), zap.Error(err))
}

// venueError converts a venue error payload into a coded error.
func venueError(e wire.Error) error {
	return errors.Newf(errors.ErrCodeVenueRejected, "venue error %d: %s", e.Code, e.Text)
}
