package backtest

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// book holds the pending orders and the latest observed bar for one
// (symbol, session) pair.
type book struct {
	mu sync.Mutex

	orders []*types.Order
	// released marks OCA groups whose transmit-flagged member has been
	// submitted; members of an unreleased group are never evaluated.
	released map[string]bool

	bar     types.Bar
	barTime time.Time
	hasData bool
}

// Engine is the rules-based matching engine. Every observed bar ratchets
// trailing thresholds first, then attempts pending orders in insertion
// order. Fills and cancels are persisted through the order repository.
type Engine struct {
	repo    store.OrderRepository
	logger  *logger.Logger
	account string

	nextID atomic.Int64

	mu     sync.Mutex
	books  map[types.FeedStateKey]*book
	lookup map[int64]*book
}

func NewEngine(repo store.OrderRepository, log *logger.Logger, account string) *Engine {
	return &Engine{
		repo:    repo,
		logger:  log,
		account: account,
		books:   make(map[types.FeedStateKey]*book),
		lookup:  make(map[int64]*book),
	}
}

func (e *Engine) bookFor(key types.FeedStateKey, create bool) *book {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.books[key]
	if !ok && create {
		b = &book{released: make(map[string]bool)}
		e.books[key] = b
	}
	return b
}

// UpdateDataFeed advances the book with a newly observed bar. Trailing
// thresholds ratchet before any fill is attempted so a single bar both moves
// and evaluates a trailing order deterministically.
func (e *Engine) UpdateDataFeed(session types.Session, bar types.Bar) error {
	b := e.bookFor(types.FeedStateKey{Symbol: bar.Symbol, Session: session}, true)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.bar = bar
	b.barTime = bar.Time
	b.hasData = true

	for _, order := range b.orders {
		ratchet(order, bar)
	}

	for _, order := range b.orders {
		filled, err := e.attempt(b, order)
		if err != nil {
			return err
		}
		if filled != nil && filled.OCAGroup != "" {
			if err := e.cancelGroup(b, filled.OCAGroup, filled.OrderID); err != nil {
				return err
			}
		}
	}

	e.prune(b)
	return nil
}

// AddOrder validates and registers a new order, then attempts an immediate
// fill against the latest bar. An order cannot be placed for a symbol the
// session has not observed market data for.
func (e *Engine) AddOrder(session types.Session, contract types.Contract, order types.Order) (int64, error) {
	order.Symbol = contract.Symbol

	switch order.Type {
	case types.OrderTypeMarketOnClose, types.OrderTypeLimitOnClose:
		return 0, errors.Newf(errors.ErrCodeUnsupportedOrderType,
			"%s orders are not supported by the simulator", order.Type)
	}

	if err := order.Validate(); err != nil {
		return 0, err
	}

	b := e.bookFor(types.FeedStateKey{Symbol: order.Symbol, Session: session}, false)
	if b == nil {
		return 0, errors.Newf(errors.ErrCodeNoMarketData,
			"no market data observed for %s", order.Symbol)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasData {
		return 0, errors.Newf(errors.ErrCodeNoMarketData,
			"no market data observed for %s", order.Symbol)
	}

	order.OrderID = e.nextID.Add(1)
	order.Account = e.account
	order.Status = types.OrderStatusSubmitted
	order.Finalized = false
	order.Price = 0
	order.SubmittedAt = b.barTime
	order.UpdatedAt = b.barTime

	tracked := &order
	ratchet(tracked, b.bar)

	if err := e.repo.SaveOrder(tracked); err != nil {
		return 0, err
	}

	b.orders = append(b.orders, tracked)
	if tracked.OCAGroup != "" && tracked.Transmit {
		b.released[tracked.OCAGroup] = true
	}

	e.mu.Lock()
	e.lookup[tracked.OrderID] = b
	e.mu.Unlock()

	filled, err := e.attempt(b, tracked)
	if err != nil {
		return 0, err
	}
	if filled != nil && filled.OCAGroup != "" {
		if err := e.cancelGroup(b, filled.OCAGroup, filled.OrderID); err != nil {
			return 0, err
		}
	}

	e.prune(b)
	return tracked.OrderID, nil
}

// CancelOrder cancels a tracked pending order. Cancelling an order the
// engine is not tracking is an error; terminal orders are pruned and no
// longer tracked.
func (e *Engine) CancelOrder(orderID int64) error {
	e.mu.Lock()
	b := e.lookup[orderID]
	e.mu.Unlock()

	if b == nil {
		e.logger.Warn("cancel for untracked order", zap.Int64("orderId", orderID))
		return errors.Newf(errors.ErrCodeOrderNotFound, "order %d is not tracked", orderID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, order := range b.orders {
		if order.OrderID != orderID || order.Finalized {
			continue
		}
		if err := e.cancel(b, order); err != nil {
			return err
		}
		e.prune(b)
		return nil
	}

	return errors.Newf(errors.ErrCodeOrderNotFound, "order %d is not tracked", orderID)
}

// LatestClose returns the close of the most recent bar observed for the
// symbol across sessions, if any.
func (e *Engine) LatestClose(symbol string) optional.Option[float64] {
	e.mu.Lock()
	candidates := make([]*book, 0, len(e.books))
	for key, b := range e.books {
		if key.Symbol == symbol {
			candidates = append(candidates, b)
		}
	}
	e.mu.Unlock()

	result := optional.None[float64]()
	var newest time.Time
	for _, b := range candidates {
		b.mu.Lock()
		if b.hasData && (result.IsNone() || b.barTime.After(newest)) {
			result = optional.Some(b.bar.Close)
			newest = b.barTime
		}
		b.mu.Unlock()
	}
	return result
}

// PendingOrders returns copies of the non-terminal orders tracked for the
// session, across symbols, in insertion order per symbol.
func (e *Engine) PendingOrders(session types.Session) []types.Order {
	e.mu.Lock()
	candidates := make([]*book, 0, len(e.books))
	for key, b := range e.books {
		if key.Session == session {
			candidates = append(candidates, b)
		}
	}
	e.mu.Unlock()

	var out []types.Order
	for _, b := range candidates {
		b.mu.Lock()
		for _, order := range b.orders {
			if !order.Finalized {
				out = append(out, *order)
			}
		}
		b.mu.Unlock()
	}
	return out
}

// attempt evaluates one order against the book's latest bar and returns the
// order that filled, which is not necessarily the one given: when the
// transmit-flagged member of an OCA group cannot fill on its own rule, the
// other group members are attempted in insertion order and the first fill
// wins.
func (e *Engine) attempt(b *book, order *types.Order) (*types.Order, error) {
	if order.Finalized {
		return nil, nil
	}
	if order.OCAGroup != "" && !b.released[order.OCAGroup] {
		return nil, nil
	}

	if price, ok := match(order, b.bar); ok {
		if err := e.fill(b, order, price); err != nil {
			return nil, err
		}
		return order, nil
	}

	if order.OCAGroup == "" || !order.Transmit {
		return nil, nil
	}

	for _, sibling := range b.orders {
		if sibling.OrderID == order.OrderID || sibling.Finalized || sibling.OCAGroup != order.OCAGroup {
			continue
		}
		if price, ok := match(sibling, b.bar); ok {
			if err := e.fill(b, sibling, price); err != nil {
				return nil, err
			}
			return sibling, nil
		}
	}

	return nil, nil
}

// match reports whether the order fills against the bar and at what price.
func match(order *types.Order, bar types.Bar) (float64, bool) {
	buy := order.Side == types.SideBuy

	switch order.Type {
	case types.OrderTypeMarket:
		return bar.Close, true

	case types.OrderTypeLimit:
		limit := order.LimitPrice.Unwrap()
		if buy && bar.Low <= limit {
			return limit, true
		}
		if !buy && bar.High >= limit {
			return limit, true
		}

	case types.OrderTypeStop, types.OrderTypeStopLimit:
		stop := order.AuxPrice.Unwrap()
		if buy && bar.High >= stop {
			return stop, true
		}
		if !buy && bar.Low <= stop {
			return stop, true
		}

	case types.OrderTypeTrailLimit:
		if buy && bar.Low >= order.Price {
			return bar.Close, true
		}
		if !buy && bar.High <= order.Price {
			return bar.Close, true
		}
	}

	return 0, false
}

// ratchet moves a trailing order's scratch threshold toward the market and
// never back. A zero scratch means the threshold has not been seeded yet.
func ratchet(order *types.Order, bar types.Bar) {
	if order.Type != types.OrderTypeTrailLimit || order.Finalized {
		return
	}

	var candidate float64
	if order.Side == types.SideBuy {
		if amount, err := order.TrailAmount.Take(); err == nil {
			candidate = bar.Low + amount
		} else {
			candidate = bar.Low * (1 + order.TrailPercent.Unwrap()/100)
		}
		if order.Price == 0 || candidate > order.Price {
			order.Price = candidate
		}
		return
	}

	if amount, err := order.TrailAmount.Take(); err == nil {
		candidate = bar.High - amount
	} else {
		candidate = bar.High * (1 - order.TrailPercent.Unwrap()/100)
	}
	if order.Price == 0 || candidate < order.Price {
		order.Price = candidate
	}
}

func (e *Engine) fill(b *book, order *types.Order, price float64) error {
	order.Status = types.OrderStatusFilled
	order.Finalized = true
	order.Price = 0
	order.UpdatedAt = b.barTime

	if err := e.repo.UpdateOrder(order); err != nil {
		return err
	}

	trade := types.Trade{
		ID:         uuid.NewString(),
		OrderID:    order.OrderID,
		Account:    order.Account,
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   order.Quantity,
		Price:      price,
		ExecutedAt: b.barTime,
	}
	if err := e.repo.SaveTrade(trade); err != nil {
		return err
	}

	e.logger.Debug("order filled",
		zap.Int64("orderId", order.OrderID),
		zap.String("symbol", order.Symbol),
		zap.Float64("price", price))
	return nil
}

func (e *Engine) cancel(b *book, order *types.Order) error {
	order.Status = types.OrderStatusCancelled
	order.Finalized = true
	order.Price = 0
	order.UpdatedAt = b.barTime

	return e.repo.UpdateOrder(order)
}

func (e *Engine) cancelGroup(b *book, group string, exceptID int64) error {
	for _, order := range b.orders {
		if order.OCAGroup != group || order.OrderID == exceptID || order.Finalized {
			continue
		}
		if err := e.cancel(b, order); err != nil {
			return err
		}
	}
	return nil
}

// prune drops terminal orders from the book and the cancel lookup. Callers
// hold the book lock.
func (e *Engine) prune(b *book) {
	kept := b.orders[:0]
	for _, order := range b.orders {
		if order.Finalized {
			e.mu.Lock()
			delete(e.lookup, order.OrderID)
			e.mu.Unlock()
			continue
		}
		kept = append(kept, order)
	}
	b.orders = kept
}
