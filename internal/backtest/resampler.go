package backtest

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// feedState tracks one consumer's progress through a source dataset. The
// interval is locked in on the first read; the cursor remembers the last
// source bar pulled from storage so pages never overlap.
type feedState struct {
	dataset  types.Dataset
	interval types.Interval
	cursor   optional.Option[time.Time]
	aligned  bool
	pending  []types.Bar // source bars of the group under construction
	ready    []types.Bar // condensed bars not yet handed out
}

// Resampler condenses stored fine-grained bars into the interval each
// consumer asked for. Progress is tracked per (symbol, session) so two
// sessions replaying the same symbol advance independently.
type Resampler struct {
	store    store.BarStore
	logger   *logger.Logger
	pageSize int

	mu    sync.Mutex
	feeds map[types.FeedStateKey]*feedState
}

func NewResampler(barStore store.BarStore, log *logger.Logger, pageSize int) *Resampler {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Resampler{
		store:    barStore,
		logger:   log,
		pageSize: pageSize,
		feeds:    make(map[types.FeedStateKey]*feedState),
	}
}

// Read returns the next condensed bar for the consumer, or an empty slice
// when storage has no complete group left. At most one newly completed bar
// is released per call; bars condensed on earlier calls drain first.
func (r *Resampler) Read(session types.Session, symbol string, interval types.Interval) ([]types.Bar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := types.FeedStateKey{Symbol: symbol, Session: session}
	state, ok := r.feeds[key]
	if !ok {
		var err error
		state, err = r.openFeed(symbol, interval)
		if err != nil {
			return nil, err
		}
		r.feeds[key] = state
	}

	if state.interval != interval {
		return nil, errors.Newf(errors.ErrCodeIntervalChanged,
			"feed for %s locked to %d %s, requested %d %s",
			symbol, state.interval.Duration, state.interval.Unit, interval.Duration, interval.Unit)
	}

	if len(state.ready) == 0 {
		if err := r.refill(state); err != nil {
			return nil, err
		}
	}

	if len(state.ready) == 0 {
		return nil, nil
	}

	next := state.ready[0]
	state.ready = state.ready[1:]
	return []types.Bar{next}, nil
}

// Release drops the consumer's progress so a later Read starts over.
func (r *Resampler) Release(session types.Session, symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.feeds, types.FeedStateKey{Symbol: symbol, Session: session})
}

func (r *Resampler) openFeed(symbol string, interval types.Interval) (*feedState, error) {
	datasets, err := r.store.Datasets(symbol)
	if err != nil {
		return nil, err
	}

	dataset, err := SelectDataset(datasets, interval)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("opened backtest feed",
		zap.String("symbol", symbol),
		zap.String("dataset", dataset.ID),
		zap.Int64("sourceSeconds", dataset.Interval.Seconds()),
		zap.Int64("requestedSeconds", interval.Seconds()))

	return &feedState{dataset: dataset, interval: interval}, nil
}

// refill pulls one page of source bars past the cursor, drops bars until the
// first one landing on a requested-interval boundary, then condenses every
// complete group. A trailing partial group stays pending until the next page
// completes it.
func (r *Resampler) refill(state *feedState) error {
	page, err := r.store.Bars(state.dataset.ID, state.cursor, r.pageSize)
	if err != nil {
		return err
	}
	if len(page) == 0 {
		return nil
	}

	requestedSeconds := state.interval.Seconds()
	groupSize := int(requestedSeconds / state.dataset.Interval.Seconds())

	for _, bar := range page {
		state.cursor = optional.Some(bar.Time)

		if !state.aligned {
			if bar.Time.Unix()%requestedSeconds != 0 {
				continue
			}
			state.aligned = true
		}

		state.pending = append(state.pending, bar)
		if len(state.pending) < groupSize {
			continue
		}

		condensed, err := types.Condense(state.pending)
		if err != nil {
			return err
		}
		state.pending = state.pending[:0]
		state.ready = append(state.ready, condensed)
	}

	return nil
}
