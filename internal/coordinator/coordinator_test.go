package coordinator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/services"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// stubAccount identifies which backend a request ran against.
type stubAccount struct {
	name string
}

var _ services.AccountService = (*stubAccount)(nil)

func (s *stubAccount) GetAccountSummary(ctx context.Context, tags []string) ([]types.AccountValue, error) {
	return []types.AccountValue{{Account: s.name}}, nil
}

func (s *stubAccount) GetPositions(ctx context.Context) ([]types.Position, error) {
	return nil, nil
}

func (s *stubAccount) GetAccountPnL(ctx context.Context, account string) (types.PnL, error) {
	return types.PnL{}, nil
}

func (s *stubAccount) GetPositionPnL(ctx context.Context, account string, contractID int64) (types.PnL, error) {
	return types.PnL{}, nil
}

type CoordinatorTestSuite struct {
	suite.Suite

	coord *Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

func (suite *CoordinatorTestSuite) SetupTest() {
	suite.coord = New(config.CoordinatorConfig{
		Workers:      2,
		QueueSize:    2,
		PollInterval: config.Duration(10 * time.Millisecond),
	}, logger.NewNopLogger())

	suite.coord.RegisterLive(services.Backend{Account: &stubAccount{name: "live"}})
	suite.coord.RegisterBacktest(services.Backend{Account: &stubAccount{name: "backtest"}})
}

func accountName(backend services.Backend) (any, error) {
	values, err := backend.Account.GetAccountSummary(context.Background(), nil)
	if err != nil {
		return nil, err
	}
	return values[0].Account, nil
}

func (suite *CoordinatorTestSuite) TestExecutesOnActiveBackend() {
	suite.coord.Start()
	defer suite.coord.Shutdown(time.Second)

	value, err := suite.coord.Execute(context.Background(), time.Second,
		func(ctx context.Context, backend services.Backend) (any, error) {
			return accountName(backend)
		})
	suite.Require().NoError(err)
	suite.Equal("backtest", value)

	suite.coord.UseLive()
	value, err = suite.coord.Execute(context.Background(), time.Second,
		func(ctx context.Context, backend services.Backend) (any, error) {
			return accountName(backend)
		})
	suite.Require().NoError(err)
	suite.Equal("live", value)
}

func (suite *CoordinatorTestSuite) TestBackendBoundAtSubmission() {
	// Submit before starting so the task sits in the queue across the swap.
	result, err := suite.coord.Submit(func(ctx context.Context, backend services.Backend) (any, error) {
		return accountName(backend)
	})
	suite.Require().NoError(err)

	suite.coord.UseLive()
	suite.coord.Start()
	defer suite.coord.Shutdown(time.Second)

	value, err := result.Wait(context.Background(), time.Second)
	suite.Require().NoError(err)
	suite.Equal("backtest", value)
}

func (suite *CoordinatorTestSuite) TestQueueFullRejects() {
	noop := func(ctx context.Context, backend services.Backend) (any, error) { return nil, nil }

	_, err := suite.coord.Submit(noop)
	suite.Require().NoError(err)
	_, err = suite.coord.Submit(noop)
	suite.Require().NoError(err)

	_, err = suite.coord.Submit(noop)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeQueueFull))
}

func (suite *CoordinatorTestSuite) TestShutdownDrainsQueue() {
	var executed atomic.Int32
	count := func(ctx context.Context, backend services.Backend) (any, error) {
		executed.Add(1)
		return nil, nil
	}

	_, err := suite.coord.Submit(count)
	suite.Require().NoError(err)
	_, err = suite.coord.Submit(count)
	suite.Require().NoError(err)

	suite.coord.Start()
	suite.coord.Shutdown(time.Second)

	suite.Equal(int32(2), executed.Load())

	_, err = suite.coord.Submit(count)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeCoordinatorStopped))
}

func (suite *CoordinatorTestSuite) TestRequestErrorPropagates() {
	suite.coord.Start()
	defer suite.coord.Shutdown(time.Second)

	boom := errors.New(errors.ErrCodeRequestFailed, "boom")
	_, err := suite.coord.Execute(context.Background(), time.Second,
		func(ctx context.Context, backend services.Backend) (any, error) {
			return nil, boom
		})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRequestFailed))
}

func (suite *CoordinatorTestSuite) TestForceStopAfterGrace() {
	suite.coord.Start()

	result, err := suite.coord.Submit(func(ctx context.Context, backend services.Backend) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	suite.Require().NoError(err)

	start := time.Now()
	suite.coord.Shutdown(100 * time.Millisecond)
	suite.Less(time.Since(start), time.Second)

	_, err = result.Wait(context.Background(), time.Second)
	suite.Require().Error(err)
}
