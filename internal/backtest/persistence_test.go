package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/mocks"
	"github.com/quantarc/tradegate/pkg/errors"
)

// PersistenceTestSuite verifies the storage interactions of the engine and
// resampler using mocked repositories.
type PersistenceTestSuite struct {
	suite.Suite

	ctrl *gomock.Controller
}

func TestPersistenceSuite(t *testing.T) {
	suite.Run(t, new(PersistenceTestSuite))
}

func (suite *PersistenceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
}

func (suite *PersistenceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *PersistenceTestSuite) TestSaveOrderFailureRejectsOrder() {
	repo := mocks.NewMockOrderRepository(suite.ctrl)
	engine := NewEngine(repo, logger.NewNopLogger(), "SIM")

	suite.Require().NoError(engine.UpdateDataFeed(testSession, types.Bar{
		Symbol: "AAPL",
		Time:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Open:   100, High: 101, Low: 99, Close: 100.5,
	}))

	saveErr := errors.New(errors.ErrCodeWriteFailed, "disk full")
	repo.EXPECT().SaveOrder(gomock.Any()).Return(saveErr)

	_, err := engine.AddOrder(testSession, types.Contract{
		Symbol:       "AAPL",
		SecurityType: types.SecurityTypeStock,
		Exchange:     "SMART",
		Currency:     "USD",
	}, types.Order{
		Type:     types.OrderTypeMarket,
		Side:     types.SideBuy,
		Quantity: 10,
	})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))

	// The rejected order must not linger in the book.
	suite.Empty(engine.PendingOrders(testSession))
}

func (suite *PersistenceTestSuite) TestFillPersistsOrderThenTrade() {
	repo := mocks.NewMockOrderRepository(suite.ctrl)
	engine := NewEngine(repo, logger.NewNopLogger(), "SIM")

	barTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(engine.UpdateDataFeed(testSession, types.Bar{
		Symbol: "AAPL",
		Time:   barTime,
		Open:   100, High: 101, Low: 99, Close: 100.5,
	}))

	var saved types.Trade

	gomock.InOrder(
		repo.EXPECT().SaveOrder(gomock.Any()).Return(nil),
		repo.EXPECT().UpdateOrder(gomock.Any()).DoAndReturn(func(order *types.Order) error {
			suite.Equal(types.OrderStatusFilled, order.Status)
			suite.True(order.Finalized)
			return nil
		}),
		repo.EXPECT().SaveTrade(gomock.Any()).DoAndReturn(func(trade types.Trade) error {
			saved = trade
			return nil
		}),
	)

	id, err := engine.AddOrder(testSession, types.Contract{
		Symbol:       "AAPL",
		SecurityType: types.SecurityTypeStock,
		Exchange:     "SMART",
		Currency:     "USD",
	}, types.Order{
		Type:     types.OrderTypeMarket,
		Side:     types.SideBuy,
		Quantity: 10,
	})
	suite.Require().NoError(err)

	suite.Equal(id, saved.OrderID)
	suite.Equal("AAPL", saved.Symbol)
	suite.Equal(100.5, saved.Price)
	suite.Equal(barTime, saved.ExecutedAt)
	suite.NotEmpty(saved.ID)
}

func (suite *PersistenceTestSuite) TestResamplerPagesPastCursor() {
	barStore := mocks.NewMockBarStore(suite.ctrl)
	resampler := NewResampler(barStore, logger.NewNopLogger(), 500)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	dataset := types.Dataset{
		ID:       "ds-1",
		Symbol:   "AAPL",
		Interval: types.Interval{Duration: 1, Unit: types.BarUnitMinute},
	}

	page := make([]types.Bar, 0, 5)
	for i := 0; i < 5; i++ {
		page = append(page, types.Bar{
			Symbol: "AAPL",
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   float64(100 + i),
			High:   float64(110 + i),
			Low:    float64(90 + i),
			Close:  float64(105 + i),
			Volume: 1000,
		})
	}

	barStore.EXPECT().Datasets("AAPL").Return([]types.Dataset{dataset}, nil)

	gomock.InOrder(
		barStore.EXPECT().Bars("ds-1", gomock.Any(), 500).
			DoAndReturn(func(id string, after optional.Option[time.Time], limit int) ([]types.Bar, error) {
				suite.True(after.IsNone())
				return page, nil
			}),
		barStore.EXPECT().Bars("ds-1", gomock.Any(), 500).
			DoAndReturn(func(id string, after optional.Option[time.Time], limit int) ([]types.Bar, error) {
				suite.Require().True(after.IsSome())
				suite.Equal(page[4].Time, after.Unwrap())
				return nil, nil
			}),
	)

	interval := types.Interval{Duration: 5, Unit: types.BarUnitMinute}

	bars, err := resampler.Read("s1", "AAPL", interval)
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.Equal(start, bars[0].Time)

	bars, err = resampler.Read("s1", "AAPL", interval)
	suite.Require().NoError(err)
	suite.Empty(bars)
}

func (suite *PersistenceTestSuite) TestResamplerStoreErrorPropagates() {
	barStore := mocks.NewMockBarStore(suite.ctrl)
	resampler := NewResampler(barStore, logger.NewNopLogger(), 500)

	barStore.EXPECT().Datasets("AAPL").
		Return(nil, errors.New(errors.ErrCodeQueryFailed, "query failed"))

	_, err := resampler.Read("s1", "AAPL", types.Interval{Duration: 1, Unit: types.BarUnitMinute})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}
