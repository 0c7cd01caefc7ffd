package broker

import (
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/fanout"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// liveResample tracks one session's progress condensing the raw 5-second
// stream into its requested interval.
type liveResample struct {
	interval types.Interval
	aligned  bool
	pending  []types.Bar
}

// Subscribe attaches the session as a reader of the contract's market data
// feed. The first subscriber opens the venue stream; later subscribers share
// it.
func (c *Client) Subscribe(session types.Session, key types.FeedKey) error {
	c.feedMu.Lock()
	defer c.feedMu.Unlock()

	entry, ok := c.feeds[key]
	if !ok {
		tickerID := c.conn.NextRequestID()
		contract := types.Contract{
			Symbol:       key.Symbol,
			SecurityType: key.SecurityType,
			Exchange:     key.Exchange,
			Currency:     key.Currency,
		}

		if err := c.conn.Send(wire.Message{
			Kind:     wire.KindReqRealTimeBars,
			ReqID:    tickerID,
			Contract: &contract,
			BarSize:  wire.RealTimeBarSeconds,
		}); err != nil {
			return err
		}

		entry = &feedEntry{
			tickerID: tickerID,
			contract: contract,
			queue:    fanout.NewQueue[types.Bar](c.logger),
			resample: make(map[types.Session]*liveResample),
		}
		c.feeds[key] = entry

		c.logger.Info("market data stream opened",
			zap.String("key", key.String()), zap.Int64("tickerId", tickerID))
	}

	entry.queue.Subscribe(session)
	return nil
}

// Read condenses the session's buffered raw bars into at most one bar of the
// requested interval. A partial trailing group stays buffered in the
// session's deque.
func (c *Client) Read(session types.Session, key types.FeedKey, interval types.Interval) ([]types.Bar, error) {
	seconds := interval.Seconds()
	if seconds <= 0 || seconds%wire.RealTimeBarSeconds != 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidInterval,
			"interval %d %s is not a multiple of the %ds stream",
			interval.Duration, interval.Unit, wire.RealTimeBarSeconds)
	}

	c.feedMu.Lock()
	defer c.feedMu.Unlock()

	entry, ok := c.feeds[key]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeFeedNotSubscribed, "no subscription for %s", key)
	}

	state, ok := entry.resample[session]
	if !ok {
		state = &liveResample{interval: interval}
		entry.resample[session] = state
	}
	if state.interval != interval {
		return nil, errors.Newf(errors.ErrCodeIntervalChanged,
			"feed %s locked to %d %s for this session", key, state.interval.Duration, state.interval.Unit)
	}

	groupSize := int(seconds / wire.RealTimeBarSeconds)
	for len(state.pending) < groupSize {
		bar, ok := entry.queue.Read(session)
		if !ok {
			return nil, nil
		}
		if !state.aligned {
			if bar.Time.Unix()%seconds != 0 {
				continue
			}
			state.aligned = true
		}
		state.pending = append(state.pending, bar)
	}

	condensed, err := types.Condense(state.pending)
	if err != nil {
		return nil, err
	}
	state.pending = state.pending[:0]
	return []types.Bar{condensed}, nil
}

// Unsubscribe drops the session's reader. When the last reader leaves, the
// venue stream is cancelled and the per-key state deleted.
func (c *Client) Unsubscribe(session types.Session, key types.FeedKey) error {
	c.feedMu.Lock()
	defer c.feedMu.Unlock()

	entry, ok := c.feeds[key]
	if !ok {
		c.logger.Warn("unsubscribe without subscription", zap.String("key", key.String()))
		return nil
	}

	entry.queue.Unsubscribe(session)
	delete(entry.resample, session)

	if entry.queue.Readers() > 0 {
		return nil
	}

	delete(c.feeds, key)
	if err := c.conn.Send(wire.Message{Kind: wire.KindCancelRealTimeBars, ReqID: entry.tickerID}); err != nil {
		c.logger.Warn("cancel stream failed",
			zap.Int64("tickerId", entry.tickerID), zap.Error(err))
	}
	return nil
}

// handleRealtimeBar fans one raw bar out to every reader of its stream.
// Bars for an unknown ticker ID are a warning: the stream was likely
// cancelled while frames were in flight.
func (c *Client) handleRealtimeBar(msg wire.Message) {
	if msg.Bar == nil {
		return
	}

	c.feedMu.Lock()
	defer c.feedMu.Unlock()

	for _, entry := range c.feeds {
		if entry.tickerID != msg.ReqID {
			continue
		}
		entry.queue.Write(types.Bar{
			Symbol: entry.contract.Symbol,
			Time:   time.Unix(msg.Bar.Time, 0).UTC(),
			Open:   msg.Bar.Open,
			High:   msg.Bar.High,
			Low:    msg.Bar.Low,
			Close:  msg.Bar.Close,
			Volume: msg.Bar.Volume,
		})
		return
	}

	c.logger.Warn("bar for unknown ticker id", zap.Int64("tickerId", msg.ReqID))
}
