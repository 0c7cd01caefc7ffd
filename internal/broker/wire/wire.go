// Package wire defines the JSON messages exchanged with the venue gateway.
// Every frame is one Message envelope; the Kind tag selects which payload
// fields are meaningful.
package wire

import (
	"encoding/json"

	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

type Kind string

// Outbound kinds.
const (
	KindStartAPI             Kind = "startApi"
	KindReqAccountSummary    Kind = "reqAccountSummary"
	KindCancelAccountSummary Kind = "cancelAccountSummary"
	KindReqPositions         Kind = "reqPositions"
	KindCancelPositions      Kind = "cancelPositions"
	KindReqPnL               Kind = "reqPnL"
	KindCancelPnL            Kind = "cancelPnL"
	KindReqPnLSingle         Kind = "reqPnLSingle"
	KindCancelPnLSingle      Kind = "cancelPnLSingle"
	KindReqContractDetails   Kind = "reqContractDetails"
	KindReqRealTimeBars      Kind = "reqRealTimeBars"
	KindCancelRealTimeBars   Kind = "cancelRealTimeBars"
	KindPlaceOrder           Kind = "placeOrder"
	KindCancelOrder          Kind = "cancelOrder"
)

// Inbound kinds.
const (
	KindNextValidID        Kind = "nextValidId"
	KindAccountSummary     Kind = "accountSummary"
	KindAccountSummaryEnd  Kind = "accountSummaryEnd"
	KindPosition           Kind = "position"
	KindPositionEnd        Kind = "positionEnd"
	KindPnL                Kind = "pnl"
	KindPnLSingle          Kind = "pnlSingle"
	KindContractDetails    Kind = "contractDetails"
	KindContractDetailsEnd Kind = "contractDetailsEnd"
	KindRealtimeBar        Kind = "realtimeBar"
	KindOrderStatus        Kind = "orderStatus"
	KindExecDetails        Kind = "execDetails"
	KindExecDetailsEnd     Kind = "execDetailsEnd"
	KindCommissionReport   Kind = "commissionReport"
	KindError              Kind = "error"
)

// RealTimeBarSeconds is the only cadence the venue streams at; coarser
// intervals are built client-side.
const RealTimeBarSeconds = 5

// RealtimeBar is the streaming bar payload. The timestamp is Unix seconds.
type RealtimeBar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// OrderStatus is the venue's order status notification payload.
type OrderStatus struct {
	OrderID      int64   `json:"orderId"`
	Status       string  `json:"status"`
	Filled       float64 `json:"filled"`
	Remaining    float64 `json:"remaining"`
	AvgFillPrice float64 `json:"avgFillPrice"`
}

// Error is the venue's error notification payload. Codes in the 2100 range
// are informational notices, not failures.
type Error struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// Notice reports whether the error is an informational notice.
func (e Error) Notice() bool {
	return e.Code >= 2100 && e.Code < 2200
}

// Message is the wire envelope. Only the fields selected by Kind are set;
// everything else is omitted from the frame.
type Message struct {
	Kind  Kind  `json:"kind"`
	ReqID int64 `json:"reqId,omitempty"`

	// startApi
	ClientID int `json:"clientId,omitempty"`

	Account string   `json:"account,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	// reqPnLSingle / pnlSingle
	ContractID int64 `json:"contractId,omitempty"`

	// reqContractDetails / contractDetails / reqRealTimeBars / placeOrder
	Contract *types.Contract `json:"contract,omitempty"`

	// reqRealTimeBars
	BarSize int `json:"barSize,omitempty"`

	// placeOrder / cancelOrder
	OrderID int64        `json:"orderId,omitempty"`
	Order   *types.Order `json:"order,omitempty"`

	// Inbound payloads.
	AccountValue *types.AccountValue     `json:"accountValue,omitempty"`
	Position     *types.Position         `json:"position,omitempty"`
	PnL          *types.PnL              `json:"pnl,omitempty"`
	Bar          *RealtimeBar            `json:"bar,omitempty"`
	OrderStatus  *OrderStatus            `json:"orderStatus,omitempty"`
	Execution    *types.Execution        `json:"execution,omitempty"`
	Commission   *types.CommissionReport `json:"commission,omitempty"`
	Error        *Error                  `json:"error,omitempty"`
}

// Encode serializes the message to one JSON frame.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, "encode wire message", err)
	}
	return data, nil
}

// Decode parses one JSON frame. A frame without a kind tag is malformed.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeDecodeFailed, "decode wire message", err)
	}
	if msg.Kind == "" {
		return Message{}, errors.New(errors.ErrCodeDecodeFailed, "wire message missing kind")
	}
	return msg, nil
}
