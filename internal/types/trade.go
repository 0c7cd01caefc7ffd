package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one executed fill, persisted by the simulator and reported by the venue.
type Trade struct {
	ID         string    `json:"id" yaml:"id"`
	OrderID    int64     `json:"order_id" yaml:"order_id"`
	Account    string    `json:"account" yaml:"account"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Side       Side      `json:"side" yaml:"side"`
	Quantity   float64   `json:"quantity" yaml:"quantity"`
	Price      float64   `json:"price" yaml:"price"`
	ExecutedAt time.Time `json:"executed_at" yaml:"executed_at"`
}

// TradeFilter is used to filter trades when querying trade history.
type TradeFilter struct {
	// Symbol filters trades by symbol (empty string means no filter)
	Symbol string `json:"symbol" yaml:"symbol"`
	// StartTime filters trades executed after this time (zero time means no filter)
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	// EndTime filters trades executed before this time (zero time means no filter)
	EndTime time.Time `json:"end_time" yaml:"end_time"`
	// Limit limits the number of trades returned (0 means no limit)
	Limit int `json:"limit" yaml:"limit"`
}

// Notional returns quantity * price computed with decimal arithmetic.
func (t *Trade) Notional() decimal.Decimal {
	return decimal.NewFromFloat(t.Quantity).Mul(decimal.NewFromFloat(t.Price))
}

// Execution is one venue-reported partial or full fill of a live order.
type Execution struct {
	ExecID  string    `json:"exec_id" yaml:"exec_id"`
	OrderID int64     `json:"order_id" yaml:"order_id"`
	Symbol  string    `json:"symbol" yaml:"symbol"`
	Side    Side      `json:"side" yaml:"side"`
	Shares  float64   `json:"shares" yaml:"shares"`
	Price   float64   `json:"price" yaml:"price"`
	Time    time.Time `json:"time" yaml:"time"`
}

// CommissionReport is the venue's commission notification for one execution.
type CommissionReport struct {
	ExecID     string  `json:"exec_id" yaml:"exec_id"`
	Commission float64 `json:"commission" yaml:"commission"`
	Currency   string  `json:"currency" yaml:"currency"`
}

// OrderState accumulates the venue's independent notifications for one placed
// order: status updates on one hand and execution/commission detail on the
// other. The two streams arrive in either order, so the state is removable
// only when both have completed.
type OrderState struct {
	OrderID     int64       `json:"order_id" yaml:"order_id"`
	Status      OrderStatus `json:"status" yaml:"status"`
	Filled      float64     `json:"filled" yaml:"filled"`
	Remaining   float64     `json:"remaining" yaml:"remaining"`
	AvgFillPrice float64    `json:"avg_fill_price" yaml:"avg_fill_price"`

	Executions  []Execution        `json:"executions" yaml:"executions"`
	Commissions []CommissionReport `json:"commissions" yaml:"commissions"`

	// ExecutionsComplete is set when the execution-details terminator for
	// this order has been received.
	ExecutionsComplete bool `json:"executions_complete" yaml:"executions_complete"`
}

// AddExecution records a fill and updates the cumulative filled quantity and
// average fill price with decimal arithmetic.
func (s *OrderState) AddExecution(exec Execution) {
	s.Executions = append(s.Executions, exec)

	total := decimal.Zero
	filled := decimal.Zero

	for _, e := range s.Executions {
		shares := decimal.NewFromFloat(e.Shares)
		total = total.Add(shares.Mul(decimal.NewFromFloat(e.Price)))
		filled = filled.Add(shares)
	}

	s.Filled, _ = filled.Float64()
	if !filled.IsZero() {
		s.AvgFillPrice, _ = total.Div(filled).Float64()
	}
}

// AddCommission records a commission report.
func (s *OrderState) AddCommission(report CommissionReport) {
	s.Commissions = append(s.Commissions, report)
}

// Terminal reports whether the tracked order reached a terminal status.
func (s *OrderState) Terminal() bool {
	return s.Status == OrderStatusFilled || s.Status == OrderStatusCancelled
}

// Removable reports whether the state can be dropped from the tracking map:
// the order must be terminal AND all execution detail must have arrived.
func (s *OrderState) Removable() bool {
	return s.Terminal() && s.ExecutionsComplete
}
