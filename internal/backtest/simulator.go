package backtest

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/services"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// Simulator is the deterministic backend. It implements the account, data
// feed and order services against stored historical bars: reads pull
// condensed bars through the resampler and feed them to the matching engine,
// account state is derived from the persisted trade history.
type Simulator struct {
	cfg       config.BacktestConfig
	resampler *Resampler
	engine    *Engine
	repo      store.OrderRepository
	barStore  store.BarStore
	logger    *logger.Logger

	// session scopes order books for this simulator instance.
	session types.Session

	mu   sync.Mutex
	subs map[types.FeedStateKey]bool
}

var (
	_ services.AccountService  = (*Simulator)(nil)
	_ services.DataFeedService = (*Simulator)(nil)
	_ services.OrderService    = (*Simulator)(nil)
)

func NewSimulator(cfg config.BacktestConfig, barStore store.BarStore, repo store.OrderRepository, session types.Session, log *logger.Logger) *Simulator {
	return &Simulator{
		cfg:       cfg,
		resampler: NewResampler(barStore, log, cfg.PageSize),
		engine:    NewEngine(repo, log, cfg.Account),
		repo:      repo,
		barStore:  barStore,
		logger:    log,
		session:   session,
		subs:      make(map[types.FeedStateKey]bool),
	}
}

// Backend bundles the simulator behind the shared service contract.
func (s *Simulator) Backend() services.Backend {
	return services.Backend{Account: s, Feed: s, Orders: s}
}

// Engine exposes the matching engine, mainly for inspection in tests.
func (s *Simulator) Engine() *Engine {
	return s.engine
}

// Subscribe attaches the session to the symbol's historical feed. It fails
// when no dataset exists for the symbol at all.
func (s *Simulator) Subscribe(session types.Session, key types.FeedKey) error {
	datasets, err := s.barStore.Datasets(key.Symbol)
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		return errors.Newf(errors.ErrCodeNoDatasource, "no datasets stored for %s", key.Symbol)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[types.FeedStateKey{Symbol: key.Symbol, Session: session}] = true
	return nil
}

// Read returns the next condensed bar for the session and advances the
// matching engine with it, so pending orders are evaluated before the caller
// sees the bar.
func (s *Simulator) Read(session types.Session, key types.FeedKey, interval types.Interval) ([]types.Bar, error) {
	s.mu.Lock()
	subscribed := s.subs[types.FeedStateKey{Symbol: key.Symbol, Session: session}]
	s.mu.Unlock()

	if !subscribed {
		return nil, errors.Newf(errors.ErrCodeFeedNotSubscribed,
			"session %s is not subscribed to %s", session, key.Symbol)
	}

	bars, err := s.resampler.Read(session, key.Symbol, interval)
	if err != nil {
		return nil, err
	}

	for _, bar := range bars {
		if err := s.engine.UpdateDataFeed(session, bar); err != nil {
			return nil, err
		}
	}
	return bars, nil
}

// Unsubscribe detaches the session from the symbol's feed. Unknown
// subscriptions are a warning, not an error.
func (s *Simulator) Unsubscribe(session types.Session, key types.FeedKey) error {
	stateKey := types.FeedStateKey{Symbol: key.Symbol, Session: session}

	s.mu.Lock()
	subscribed := s.subs[stateKey]
	delete(s.subs, stateKey)
	s.mu.Unlock()

	if !subscribed {
		s.logger.Warn("unsubscribe without subscription",
			zap.String("session", string(session)), zap.String("symbol", key.Symbol))
		return nil
	}

	s.resampler.Release(session, key.Symbol)
	return nil
}

// PlaceOrder validates the contract and hands the order to the matching
// engine for an immediate evaluation against the latest observed bar.
func (s *Simulator) PlaceOrder(ctx context.Context, contract types.Contract, order types.Order) (int64, error) {
	if err := contract.Validate(); err != nil {
		return 0, err
	}
	return s.engine.AddOrder(s.session, contract, order)
}

func (s *Simulator) CancelOrder(ctx context.Context, orderID int64) error {
	return s.engine.CancelOrder(orderID)
}

// ledger is the average-cost running state for one symbol.
type ledger struct {
	quantity decimal.Decimal
	avgCost  decimal.Decimal
	realized decimal.Decimal
}

func (l *ledger) apply(trade types.Trade) {
	quantity := decimal.NewFromFloat(trade.Quantity)
	price := decimal.NewFromFloat(trade.Price)
	signed := quantity
	if trade.Side == types.SideSell {
		signed = quantity.Neg()
	}

	if l.quantity.IsZero() || l.quantity.Sign() == signed.Sign() {
		total := l.quantity.Abs().Add(quantity)
		l.avgCost = l.avgCost.Mul(l.quantity.Abs()).Add(price.Mul(quantity)).Div(total)
		l.quantity = l.quantity.Add(signed)
		return
	}

	closing := decimal.Min(quantity, l.quantity.Abs())
	perUnit := price.Sub(l.avgCost)
	if l.quantity.Sign() < 0 {
		perUnit = l.avgCost.Sub(price)
	}
	l.realized = l.realized.Add(perUnit.Mul(closing))

	l.quantity = l.quantity.Add(signed)
	if l.quantity.Sign() == signed.Sign() {
		// The position flipped direction; the remainder opens at the
		// trade price.
		l.avgCost = price
	} else if l.quantity.IsZero() {
		l.avgCost = decimal.Zero
	}
}

func (s *Simulator) ledgers() (map[string]*ledger, error) {
	trades, err := s.repo.Trades(types.TradeFilter{})
	if err != nil {
		return nil, err
	}

	ledgers := make(map[string]*ledger)
	for _, trade := range trades {
		l, ok := ledgers[trade.Symbol]
		if !ok {
			l = &ledger{}
			ledgers[trade.Symbol] = l
		}
		l.apply(trade)
	}
	return ledgers, nil
}

func (s *Simulator) markPrice(symbol string, l *ledger) decimal.Decimal {
	if price, err := s.engine.LatestClose(symbol).Take(); err == nil {
		return decimal.NewFromFloat(price)
	}
	return l.avgCost
}

// GetAccountSummary derives the requested tags from the initial capital and
// the recorded trade history. An empty tag list returns every known tag.
func (s *Simulator) GetAccountSummary(ctx context.Context, tags []string) ([]types.AccountValue, error) {
	ledgers, err := s.ledgers()
	if err != nil {
		return nil, err
	}

	cash := decimal.NewFromFloat(s.cfg.InitialCapital)
	gross := decimal.Zero
	net := decimal.Zero
	realized := decimal.Zero

	trades, err := s.repo.Trades(types.TradeFilter{})
	if err != nil {
		return nil, err
	}
	for _, trade := range trades {
		if trade.Side == types.SideBuy {
			cash = cash.Sub(trade.Notional())
		} else {
			cash = cash.Add(trade.Notional())
		}
	}

	for symbol, l := range ledgers {
		mark := s.markPrice(symbol, l)
		gross = gross.Add(l.quantity.Abs().Mul(mark))
		net = net.Add(l.quantity.Mul(mark))
		realized = realized.Add(l.realized)
	}

	values := map[string]string{
		types.TagNetLiquidation: cash.Add(net).String(),
		types.TagTotalCashValue: cash.String(),
		types.TagBuyingPower:    cash.String(),
		types.TagAvailableFunds: cash.String(),
		types.TagGrossPosition:  gross.String(),
		types.TagRealizedPnL:    realized.String(),
	}

	if len(tags) == 0 {
		tags = make([]string, 0, len(values))
		for tag := range values {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
	}

	out := make([]types.AccountValue, 0, len(tags))
	for _, tag := range tags {
		value, ok := values[tag]
		if !ok {
			s.logger.Warn("unknown summary tag", zap.String("tag", tag))
			continue
		}
		out = append(out, types.AccountValue{
			Account:  s.cfg.Account,
			Tag:      tag,
			Value:    value,
			Currency: "USD",
		})
	}
	return out, nil
}

// GetPositions aggregates the trade history into open positions.
func (s *Simulator) GetPositions(ctx context.Context) ([]types.Position, error) {
	ledgers, err := s.ledgers()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(ledgers))
	for symbol := range ledgers {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	positions := make([]types.Position, 0, len(symbols))
	for _, symbol := range symbols {
		l := ledgers[symbol]
		if l.quantity.IsZero() {
			continue
		}
		positions = append(positions, types.Position{
			Account: s.cfg.Account,
			Contract: types.Contract{
				ContractID:   syntheticContractID(symbol),
				Symbol:       symbol,
				SecurityType: types.SecurityTypeStock,
			},
			Quantity: l.quantity.InexactFloat64(),
			AvgCost:  l.avgCost.InexactFloat64(),
		})
	}
	return positions, nil
}

// GetAccountPnL sums realized and unrealized PnL across all symbols. The
// simulator has no day boundary, so the daily figure equals the total.
func (s *Simulator) GetAccountPnL(ctx context.Context, account string) (types.PnL, error) {
	ledgers, err := s.ledgers()
	if err != nil {
		return types.PnL{}, err
	}

	realized := decimal.Zero
	unrealized := decimal.Zero
	for symbol, l := range ledgers {
		realized = realized.Add(l.realized)
		unrealized = unrealized.Add(s.unrealized(symbol, l))
	}

	return types.PnL{
		Account:    account,
		Daily:      realized.Add(unrealized).InexactFloat64(),
		Unrealized: unrealized.InexactFloat64(),
		Realized:   realized.InexactFloat64(),
	}, nil
}

// GetPositionPnL returns the PnL snapshot for the position whose synthetic
// contract ID matches.
func (s *Simulator) GetPositionPnL(ctx context.Context, account string, contractID int64) (types.PnL, error) {
	ledgers, err := s.ledgers()
	if err != nil {
		return types.PnL{}, err
	}

	for symbol, l := range ledgers {
		if syntheticContractID(symbol) != contractID {
			continue
		}
		unrealized := s.unrealized(symbol, l)
		return types.PnL{
			Account:    account,
			ContractID: contractID,
			Daily:      l.realized.Add(unrealized).InexactFloat64(),
			Unrealized: unrealized.InexactFloat64(),
			Realized:   l.realized.InexactFloat64(),
		}, nil
	}

	return types.PnL{}, errors.Newf(errors.ErrCodeDataNotFound, "no position for contract %d", contractID)
}

func (s *Simulator) unrealized(symbol string, l *ledger) decimal.Decimal {
	if l.quantity.IsZero() {
		return decimal.Zero
	}
	mark := s.markPrice(symbol, l)
	perUnit := mark.Sub(l.avgCost)
	return perUnit.Mul(l.quantity)
}

// syntheticContractID derives a stable contract ID for a simulated symbol.
func syntheticContractID(symbol string) int64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return int64(h.Sum32())
}
