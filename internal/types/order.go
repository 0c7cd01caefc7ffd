package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/quantarc/tradegate/pkg/errors"
)

type OrderType string

type Side string

type OrderStatus string

const (
	OrderTypeMarket     OrderType = "MKT"
	OrderTypeLimit      OrderType = "LMT"
	OrderTypeStop       OrderType = "STP"
	OrderTypeStopLimit  OrderType = "STP LMT"
	OrderTypeTrailLimit OrderType = "TRAIL LIMIT"
	// Market-on-close and limit-on-close exist at the venue but are not
	// supported by the simulator.
	OrderTypeMarketOnClose OrderType = "MOC"
	OrderTypeLimitOnClose  OrderType = "LOC"
)

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderStatusSubmitted OrderStatus = "SUBMITTED"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a single order, live or simulated.
type Order struct {
	OrderID int64  `json:"order_id" yaml:"order_id"`
	Account string `json:"account" yaml:"account"`
	Symbol  string `json:"symbol" yaml:"symbol" validate:"required"`

	Type     OrderType `json:"type" yaml:"type" validate:"required,oneof=MKT LMT STP 'STP LMT' 'TRAIL LIMIT' MOC LOC"`
	Side     Side      `json:"side" yaml:"side" validate:"required,oneof=BUY SELL"`
	Quantity float64   `json:"quantity" yaml:"quantity" validate:"required,gt=0"`

	// LimitPrice applies to LMT, STP LMT and TRAIL LIMIT orders.
	LimitPrice optional.Option[float64] `json:"limit_price" yaml:"limit_price"`
	// AuxPrice is the stop trigger for STP and STP LMT orders.
	AuxPrice optional.Option[float64] `json:"aux_price" yaml:"aux_price"`
	// TrailAmount / TrailPercent configure trailing orders; at most one is set.
	TrailAmount  optional.Option[float64] `json:"trail_amount" yaml:"trail_amount"`
	TrailPercent optional.Option[float64] `json:"trail_percent" yaml:"trail_percent"`

	// OCAGroup names the one-cancels-all group, empty for standalone orders.
	OCAGroup string `json:"oca_group" yaml:"oca_group"`
	// Transmit marks the order that releases its OCA group for evaluation.
	Transmit bool `json:"transmit" yaml:"transmit"`

	// Price is scratch space for the current trailing threshold. It is
	// cleared on fill and cancel so it is never persisted as a trail value.
	Price float64 `json:"price" yaml:"price"`

	Status    OrderStatus `json:"status" yaml:"status"`
	Finalized bool        `json:"finalized" yaml:"finalized"`

	SubmittedAt time.Time `json:"submitted_at" yaml:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Validate checks structural validity plus the per-type price requirements.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	switch o.Type {
	case OrderTypeLimit:
		if o.LimitPrice.IsNone() {
			return errors.New(errors.ErrCodeInvalidOrder, "limit order requires a limit price")
		}
	case OrderTypeStop:
		if o.AuxPrice.IsNone() {
			return errors.New(errors.ErrCodeInvalidOrder, "stop order requires a stop price")
		}
	case OrderTypeStopLimit:
		if o.AuxPrice.IsNone() || o.LimitPrice.IsNone() {
			return errors.New(errors.ErrCodeInvalidOrder, "stop-limit order requires stop and limit prices")
		}
	case OrderTypeTrailLimit:
		if o.TrailAmount.IsNone() && o.TrailPercent.IsNone() {
			return errors.New(errors.ErrCodeInvalidOrder, "trailing-limit order requires a trail amount or percent")
		}

		if o.TrailAmount.IsSome() && o.TrailPercent.IsSome() {
			return errors.New(errors.ErrCodeInvalidOrder, "trail amount and trail percent are mutually exclusive")
		}
	case OrderTypeMarket, OrderTypeMarketOnClose, OrderTypeLimitOnClose:
	}

	return nil
}

// Terminal reports whether the order is in a terminal status.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusFilled || o.Status == OrderStatusCancelled
}
