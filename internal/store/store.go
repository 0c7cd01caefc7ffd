// Package store holds the persistence collaborators: the historical bar
// store queried by the backtest resampler and the order/trade repository the
// matching engine persists through. Both are backed by DuckDB.
package store

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/quantarc/tradegate/internal/types"
)

// BarStore is the historical dataset store. Bars inside a dataset are stored
// at one fixed granularity and queried in timestamp order, paginated.
type BarStore interface {
	// CreateDataset registers a new dataset and returns its ID.
	CreateDataset(dataset types.Dataset) (string, error)
	// AppendBars appends bars to a dataset and widens its time range.
	AppendBars(datasetID string, bars []types.Bar) error
	// Datasets returns every dataset stored for the symbol.
	Datasets(symbol string) ([]types.Dataset, error)
	// Bars returns up to limit bars of the dataset with timestamps strictly
	// after the given cursor, in ascending timestamp order.
	Bars(datasetID string, after optional.Option[time.Time], limit int) ([]types.Bar, error)
}

// OrderRepository durably stores orders and trades for the simulator.
// Assumed transactional and synchronous from the core's perspective.
type OrderRepository interface {
	// SaveOrder inserts a new order row.
	SaveOrder(order *types.Order) error
	// UpdateOrder rewrites the mutable fields of an existing order row.
	UpdateOrder(order *types.Order) error
	// FindOrder looks an order up by ID.
	FindOrder(orderID int64) (optional.Option[types.Order], error)
	// FindOpenOrders returns all non-finalized orders for the account.
	FindOpenOrders(account string) ([]types.Order, error)
	// SaveTrade inserts an executed fill row.
	SaveTrade(trade types.Trade) error
	// Trades returns executed trades matching the filter.
	Trades(filter types.TradeFilter) ([]types.Trade, error)
}
