package broker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// PlaceOrder validates and transmits an order, tracking its lifecycle until
// both the terminal status and the execution details have arrived.
func (c *Client) PlaceOrder(ctx context.Context, contract types.Contract, order types.Order) (int64, error) {
	if err := contract.Validate(); err != nil {
		return 0, err
	}

	order.Symbol = contract.Symbol
	if err := order.Validate(); err != nil {
		return 0, err
	}

	orderID := c.conn.NextRequestID()
	order.OrderID = orderID
	order.Account = c.cfg.Account
	order.Status = types.OrderStatusSubmitted
	order.SubmittedAt = time.Now().UTC()
	order.UpdatedAt = order.SubmittedAt

	c.orderMu.Lock()
	c.orders[orderID] = &types.OrderState{
		OrderID: orderID,
		Status:  types.OrderStatusSubmitted,
	}
	c.orderMu.Unlock()

	if err := c.conn.Send(wire.Message{
		Kind:     wire.KindPlaceOrder,
		OrderID:  orderID,
		Contract: &contract,
		Order:    &order,
	}); err != nil {
		c.orderMu.Lock()
		delete(c.orders, orderID)
		c.orderMu.Unlock()
		return 0, err
	}

	c.logger.Info("order placed",
		zap.Int64("orderId", orderID),
		zap.String("symbol", order.Symbol),
		zap.String("type", string(order.Type)),
		zap.String("side", string(order.Side)))
	return orderID, nil
}

// CancelOrder requests cancellation of a tracked order. Cancelling an order
// the client is not tracking is a warning.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	c.orderMu.Lock()
	_, tracked := c.orders[orderID]
	c.orderMu.Unlock()

	if !tracked {
		c.logger.Warn("cancel for untracked order", zap.Int64("orderId", orderID))
		return errors.Newf(errors.ErrCodeOrderNotFound, "order %d is not tracked", orderID)
	}

	return c.conn.Send(wire.Message{Kind: wire.KindCancelOrder, OrderID: orderID})
}

// OrderState returns a copy of the tracked state for the order, if any.
func (c *Client) OrderState(orderID int64) (types.OrderState, bool) {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	state, ok := c.orders[orderID]
	if !ok {
		return types.OrderState{}, false
	}
	return *state, true
}

func (c *Client) handleOrderStatus(msg wire.Message) {
	if msg.OrderStatus == nil {
		return
	}

	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	state, ok := c.orders[msg.OrderStatus.OrderID]
	if !ok {
		c.logger.Warn("status for untracked order", zap.Int64("orderId", msg.OrderStatus.OrderID))
		return
	}

	state.Status = types.OrderStatus(msg.OrderStatus.Status)
	state.Remaining = msg.OrderStatus.Remaining
	if msg.OrderStatus.Filled > state.Filled {
		state.Filled = msg.OrderStatus.Filled
	}
	if msg.OrderStatus.AvgFillPrice > 0 {
		state.AvgFillPrice = msg.OrderStatus.AvgFillPrice
	}

	c.removeIfDone(state)
}

func (c *Client) handleExecDetails(msg wire.Message) {
	if msg.Execution == nil {
		return
	}

	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	state, ok := c.orders[msg.Execution.OrderID]
	if !ok {
		c.logger.Warn("execution for untracked order", zap.Int64("orderId", msg.Execution.OrderID))
		return
	}
	state.AddExecution(*msg.Execution)
}

func (c *Client) handleExecDetailsEnd(msg wire.Message) {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	state, ok := c.orders[msg.OrderID]
	if !ok {
		return
	}
	state.ExecutionsComplete = true
	c.removeIfDone(state)
}

func (c *Client) handleCommission(msg wire.Message) {
	if msg.Commission == nil {
		return
	}

	c.orderMu.Lock()
	defer c.orderMu.Unlock()

	for _, state := range c.orders {
		for _, exec := range state.Executions {
			if exec.ExecID == msg.Commission.ExecID {
				state.AddCommission(*msg.Commission)
				return
			}
		}
	}
}

// removeIfDone drops the order state once it is terminal and execution
// details are complete. Callers hold the order lock.
func (c *Client) removeIfDone(state *types.OrderState) {
	if !state.Removable() {
		return
	}
	delete(c.orders, state.OrderID)
	c.logger.Debug("order state retired", zap.Int64("orderId", state.OrderID))
}
