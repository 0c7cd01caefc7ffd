package store

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// DuckDB implements BarStore and OrderRepository on one DuckDB database.
type DuckDB struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDB opens (or creates) the DuckDB database at path. Use ":memory:"
// for an ephemeral store.
func NewDuckDB(path string, log *logger.Logger) (*DuckDB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open database", err)
	}

	return &DuckDB{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the dataset, bar, order and trade tables.
func (d *DuckDB) Initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			symbol TEXT,
			duration BIGINT,
			unit TEXT,
			start_time TIMESTAMP,
			end_time TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS bars (
			id TEXT PRIMARY KEY,
			dataset_id TEXT,
			symbol TEXT,
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id BIGINT PRIMARY KEY,
			account TEXT,
			symbol TEXT,
			order_type TEXT,
			side TEXT,
			quantity DOUBLE,
			limit_price DOUBLE,
			aux_price DOUBLE,
			trail_amount DOUBLE,
			trail_percent DOUBLE,
			oca_group TEXT,
			transmit BOOLEAN,
			status TEXT,
			finalized BOOLEAN,
			submitted_at TIMESTAMP,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			order_id BIGINT,
			account TEXT,
			symbol TEXT,
			side TEXT,
			quantity DOUBLE,
			price DOUBLE,
			executed_at TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create tables", err)
		}
	}

	return nil
}

// Close closes the underlying database.
func (d *DuckDB) Close() error {
	return d.db.Close()
}

// CreateDataset implements BarStore.
func (d *DuckDB) CreateDataset(dataset types.Dataset) (string, error) {
	if dataset.ID == "" {
		dataset.ID = uuid.New().String()
	}

	_, err := d.sq.Insert("datasets").
		Columns("id", "symbol", "duration", "unit", "start_time", "end_time").
		Values(dataset.ID, dataset.Symbol, dataset.Interval.Duration, string(dataset.Interval.Unit), dataset.Start, dataset.End).
		RunWith(d.db).
		Exec()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert dataset", err)
	}

	return dataset.ID, nil
}

// AppendBars implements BarStore.
func (d *DuckDB) AppendBars(datasetID string, bars []types.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	insert := d.sq.Insert("bars").
		Columns("id", "dataset_id", "symbol", "time", "open", "high", "low", "close", "volume")

	for _, bar := range bars {
		id := bar.Id
		if id == "" {
			id = uuid.New().String()
		}

		insert = insert.Values(id, datasetID, bar.Symbol, bar.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	if _, err := insert.RunWith(tx).Exec(); err != nil {
		_ = tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert bars", err)
	}

	// Widen the dataset's time range to cover the appended bars.
	first, last := bars[0].Time, bars[len(bars)-1].Time

	_, err = tx.Exec(`
		UPDATE datasets
		SET start_time = CASE WHEN start_time IS NULL OR start_time > ? THEN ? ELSE start_time END,
		    end_time   = CASE WHEN end_time   IS NULL OR end_time   < ? THEN ? ELSE end_time   END
		WHERE id = ?`,
		first, first, last, last, datasetID)
	if err != nil {
		_ = tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to update dataset range", err)
	}

	return tx.Commit()
}

// Datasets implements BarStore.
func (d *DuckDB) Datasets(symbol string) ([]types.Dataset, error) {
	rows, err := d.sq.Select("id", "symbol", "duration", "unit", "start_time", "end_time").
		From("datasets").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("duration * CASE unit WHEN 'sec' THEN 1 WHEN 'min' THEN 60 WHEN 'hour' THEN 3600 ELSE 86400 END").
		RunWith(d.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query datasets", err)
	}
	defer rows.Close()

	var datasets []types.Dataset

	for rows.Next() {
		var (
			ds         types.Dataset
			unit       string
			start, end sql.NullTime
		)

		if err := rows.Scan(&ds.ID, &ds.Symbol, &ds.Interval.Duration, &unit, &start, &end); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan dataset", err)
		}

		ds.Interval.Unit = types.BarUnit(unit)
		if start.Valid {
			ds.Start = start.Time
		}

		if end.Valid {
			ds.End = end.Time
		}

		datasets = append(datasets, ds)
	}

	return datasets, rows.Err()
}

// Bars implements BarStore.
func (d *DuckDB) Bars(datasetID string, after optional.Option[time.Time], limit int) ([]types.Bar, error) {
	query := d.sq.Select("id", "dataset_id", "symbol", "time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.Eq{"dataset_id": datasetID}).
		OrderBy("time ASC").
		Limit(uint64(limit))

	if after.IsSome() {
		query = query.Where(squirrel.Gt{"time": after.Unwrap()})
	}

	rows, err := query.RunWith(d.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Id, &bar.DatasetID, &bar.Symbol, &bar.Time,
			&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bars = append(bars, bar)
	}

	return bars, rows.Err()
}

// SaveOrder implements OrderRepository.
func (d *DuckDB) SaveOrder(order *types.Order) error {
	_, err := d.sq.Insert("orders").
		Columns("order_id", "account", "symbol", "order_type", "side", "quantity",
			"limit_price", "aux_price", "trail_amount", "trail_percent",
			"oca_group", "transmit", "status", "finalized", "submitted_at", "updated_at").
		Values(order.OrderID, order.Account, order.Symbol, string(order.Type), string(order.Side), order.Quantity,
			optFloat(order.LimitPrice), optFloat(order.AuxPrice), optFloat(order.TrailAmount), optFloat(order.TrailPercent),
			order.OCAGroup, order.Transmit, string(order.Status), order.Finalized, order.SubmittedAt, order.UpdatedAt).
		RunWith(d.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert order", err)
	}

	return nil
}

// UpdateOrder implements OrderRepository. The trailing scratch price is
// deliberately not a column: it must never be persisted.
func (d *DuckDB) UpdateOrder(order *types.Order) error {
	result, err := d.sq.Update("orders").
		Set("status", string(order.Status)).
		Set("finalized", order.Finalized).
		Set("quantity", order.Quantity).
		Set("updated_at", order.UpdatedAt).
		Where(squirrel.Eq{"order_id": order.OrderID}).
		RunWith(d.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to update order", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		d.logger.Warn("Update matched no order", zap.Int64("order_id", order.OrderID))
	}

	return nil
}

// FindOrder implements OrderRepository.
func (d *DuckDB) FindOrder(orderID int64) (optional.Option[types.Order], error) {
	rows, err := d.selectOrders().
		Where(squirrel.Eq{"order_id": orderID}).
		RunWith(d.db).
		Query()
	if err != nil {
		return optional.None[types.Order](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query order", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return optional.None[types.Order](), rows.Err()
	}

	order, err := scanOrder(rows)
	if err != nil {
		return optional.None[types.Order](), err
	}

	return optional.Some(order), nil
}

// FindOpenOrders implements OrderRepository.
func (d *DuckDB) FindOpenOrders(account string) ([]types.Order, error) {
	rows, err := d.selectOrders().
		Where(squirrel.Eq{"account": account, "finalized": false}).
		OrderBy("submitted_at ASC").
		RunWith(d.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query open orders", err)
	}
	defer rows.Close()

	var orders []types.Order

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// SaveTrade implements OrderRepository.
func (d *DuckDB) SaveTrade(trade types.Trade) error {
	if trade.ID == "" {
		trade.ID = uuid.New().String()
	}

	_, err := d.sq.Insert("trades").
		Columns("id", "order_id", "account", "symbol", "side", "quantity", "price", "executed_at").
		Values(trade.ID, trade.OrderID, trade.Account, trade.Symbol, string(trade.Side), trade.Quantity, trade.Price, trade.ExecutedAt).
		RunWith(d.db).
		Exec()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert trade", err)
	}

	return nil
}

// Trades implements OrderRepository.
func (d *DuckDB) Trades(filter types.TradeFilter) ([]types.Trade, error) {
	query := d.sq.Select("id", "order_id", "account", "symbol", "side", "quantity", "price", "executed_at").
		From("trades").
		OrderBy("executed_at ASC")

	if filter.Symbol != "" {
		query = query.Where(squirrel.Eq{"symbol": filter.Symbol})
	}

	if !filter.StartTime.IsZero() {
		query = query.Where(squirrel.GtOrEq{"executed_at": filter.StartTime})
	}

	if !filter.EndTime.IsZero() {
		query = query.Where(squirrel.LtOrEq{"executed_at": filter.EndTime})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	rows, err := query.RunWith(d.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var (
			trade types.Trade
			side  string
		)

		if err := rows.Scan(&trade.ID, &trade.OrderID, &trade.Account, &trade.Symbol,
			&side, &trade.Quantity, &trade.Price, &trade.ExecutedAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Side = types.Side(side)
		trades = append(trades, trade)
	}

	return trades, rows.Err()
}

func (d *DuckDB) selectOrders() squirrel.SelectBuilder {
	return d.sq.Select("order_id", "account", "symbol", "order_type", "side", "quantity",
		"limit_price", "aux_price", "trail_amount", "trail_percent",
		"oca_group", "transmit", "status", "finalized", "submitted_at", "updated_at").
		From("orders")
}

func scanOrder(rows *sql.Rows) (types.Order, error) {
	var (
		order                                        types.Order
		orderType, side, status                      string
		limitPrice, auxPrice, trailAmt, trailPct     sql.NullFloat64
	)

	err := rows.Scan(&order.OrderID, &order.Account, &order.Symbol, &orderType, &side, &order.Quantity,
		&limitPrice, &auxPrice, &trailAmt, &trailPct,
		&order.OCAGroup, &order.Transmit, &status, &order.Finalized, &order.SubmittedAt, &order.UpdatedAt)
	if err != nil {
		return types.Order{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan order", err)
	}

	order.Type = types.OrderType(orderType)
	order.Side = types.Side(side)
	order.Status = types.OrderStatus(status)
	order.LimitPrice = nullFloat(limitPrice)
	order.AuxPrice = nullFloat(auxPrice)
	order.TrailAmount = nullFloat(trailAmt)
	order.TrailPercent = nullFloat(trailPct)

	return order, nil
}

func optFloat(opt optional.Option[float64]) any {
	if opt.IsNone() {
		return nil
	}

	return opt.Unwrap()
}

func nullFloat(value sql.NullFloat64) optional.Option[float64] {
	if !value.Valid {
		return optional.None[float64]()
	}

	return optional.Some(value.Float64)
}

// Interface guards.
var (
	_ BarStore        = (*DuckDB)(nil)
	_ OrderRepository = (*DuckDB)(nil)
)
