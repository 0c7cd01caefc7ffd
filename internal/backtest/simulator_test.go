package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantarc/tradegate/internal/config"
	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/mocks"
	"github.com/quantarc/tradegate/pkg/errors"
)

const simSession types.Session = "sim-test"

type SimulatorTestSuite struct {
	suite.Suite

	store     *store.DuckDB
	simulator *Simulator
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func (suite *SimulatorTestSuite) SetupTest() {
	db, err := store.NewDuckDB(":memory:", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().NoError(db.Initialize())

	cfg := config.BacktestConfig{
		Account:        "SIM",
		InitialCapital: 100000,
		PageSize:       500,
	}

	suite.store = db
	suite.simulator = NewSimulator(cfg, db, db, simSession, logger.NewNopLogger())
}

func (suite *SimulatorTestSuite) TearDownTest() {
	suite.NoError(suite.store.Close())
}

func (suite *SimulatorTestSuite) feedKey() types.FeedKey {
	return types.FeedKey{
		Symbol:       "AAPL",
		SecurityType: types.SecurityTypeStock,
		Exchange:     "SMART",
		Currency:     "USD",
	}
}

func (suite *SimulatorTestSuite) contract() types.Contract {
	return types.Contract{
		Symbol:       "AAPL",
		SecurityType: types.SecurityTypeStock,
		Exchange:     "SMART",
		Currency:     "USD",
	}
}

func (suite *SimulatorTestSuite) seedMinuteBars(closes []float64) {
	id, err := suite.store.CreateDataset(types.Dataset{
		Symbol:   "AAPL",
		Interval: types.Interval{Duration: 1, Unit: types.BarUnitMinute},
	})
	suite.Require().NoError(err)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, 0, len(closes))
	for i, close := range closes {
		bars = append(bars, types.Bar{
			Symbol: "AAPL",
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		})
	}
	suite.Require().NoError(suite.store.AppendBars(id, bars))
}

func (suite *SimulatorTestSuite) TestSubscribeUnknownSymbol() {
	err := suite.simulator.Subscribe(simSession, types.FeedKey{Symbol: "MSFT"})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDatasource))
}

func (suite *SimulatorTestSuite) TestReadRequiresSubscription() {
	suite.seedMinuteBars([]float64{100})

	_, err := suite.simulator.Read(simSession, suite.feedKey(), types.Interval{Duration: 1, Unit: types.BarUnitMinute})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFeedNotSubscribed))
}

func (suite *SimulatorTestSuite) TestUnsubscribeWithoutSubscriptionIsNoOp() {
	suite.NoError(suite.simulator.Unsubscribe(simSession, suite.feedKey()))
}

func (suite *SimulatorTestSuite) TestTradeFlowThroughAccount() {
	suite.seedMinuteBars([]float64{100, 110, 120})
	interval := types.Interval{Duration: 1, Unit: types.BarUnitMinute}
	ctx := context.Background()

	suite.Require().NoError(suite.simulator.Subscribe(simSession, suite.feedKey()))

	bars, err := suite.simulator.Read(simSession, suite.feedKey(), interval)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.Equal(100.0, bars[0].Close)

	// Buy 10 at the observed close.
	orderID, err := suite.simulator.PlaceOrder(ctx, suite.contract(), types.Order{
		Type:     types.OrderTypeMarket,
		Side:     types.SideBuy,
		Quantity: 10,
	})
	suite.Require().NoError(err)
	suite.Greater(orderID, int64(0))

	positions, err := suite.simulator.GetPositions(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(positions, 1)
	suite.Equal(10.0, positions[0].Quantity)
	suite.Equal(100.0, positions[0].AvgCost)

	summary, err := suite.simulator.GetAccountSummary(ctx, []string{types.TagTotalCashValue})
	suite.Require().NoError(err)
	suite.Require().Len(summary, 1)
	suite.Equal("99000", summary[0].Value)

	// Advance the market; unrealized PnL follows the latest close.
	bars, err = suite.simulator.Read(simSession, suite.feedKey(), interval)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.Equal(110.0, bars[0].Close)

	pnl, err := suite.simulator.GetAccountPnL(ctx, "SIM")
	suite.Require().NoError(err)
	suite.Equal(100.0, pnl.Unrealized) // (110 - 100) * 10
	suite.Equal(0.0, pnl.Realized)

	positionPnL, err := suite.simulator.GetPositionPnL(ctx, "SIM", positions[0].Contract.ContractID)
	suite.Require().NoError(err)
	suite.Equal(100.0, positionPnL.Unrealized)

	// Sell everything at 120 and realize the gain.
	bars, err = suite.simulator.Read(simSession, suite.feedKey(), interval)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)

	_, err = suite.simulator.PlaceOrder(ctx, suite.contract(), types.Order{
		Type:     types.OrderTypeMarket,
		Side:     types.SideSell,
		Quantity: 10,
	})
	suite.Require().NoError(err)

	pnl, err = suite.simulator.GetAccountPnL(ctx, "SIM")
	suite.Require().NoError(err)
	suite.Equal(200.0, pnl.Realized) // (120 - 100) * 10
	suite.Equal(0.0, pnl.Unrealized)

	positions, err = suite.simulator.GetPositions(ctx)
	suite.Require().NoError(err)
	suite.Empty(positions)
}

func (suite *SimulatorTestSuite) TestPositionPnLUnknownContract() {
	_, err := suite.simulator.GetPositionPnL(context.Background(), "SIM", 123456)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *SimulatorTestSuite) TestInvalidContractRejected() {
	suite.seedMinuteBars([]float64{100})

	_, err := suite.simulator.PlaceOrder(context.Background(), types.Contract{Symbol: "AAPL"}, types.Order{
		Type:     types.OrderTypeMarket,
		Side:     types.SideBuy,
		Quantity: 1,
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidContract))
}

func (suite *SimulatorTestSuite) TestReplayOfGeneratedSeries() {
	gen := mocks.NewDataGenerator(42)
	cfg := mocks.DefaultConfig()
	cfg.Symbol = "AAPL"
	cfg.StartTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cfg.Interval = time.Minute
	cfg.Count = 50

	id, err := suite.store.CreateDataset(types.Dataset{
		Symbol:   "AAPL",
		Interval: types.Interval{Duration: 1, Unit: types.BarUnitMinute},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.AppendBars(id, gen.Generate(cfg)))

	suite.Require().NoError(suite.simulator.Subscribe(simSession, suite.feedKey()))

	interval := types.Interval{Duration: 5, Unit: types.BarUnitMinute}

	condensed := 0
	for {
		bars, err := suite.simulator.Read(simSession, suite.feedKey(), interval)
		suite.Require().NoError(err)
		if len(bars) == 0 {
			break
		}
		condensed += len(bars)

		for _, bar := range bars {
			suite.GreaterOrEqual(bar.High, bar.Low)
			suite.Positive(bar.Close)
		}
	}

	suite.Equal(10, condensed)
}
