package broker

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// GetAccountSummary requests the given summary tags and waits for the full
// set. The venue subscription is always cancelled afterwards, even when the
// wait timed out or the caller's context was cancelled.
func (c *Client) GetAccountSummary(ctx context.Context, tags []string) ([]types.AccountValue, error) {
	requestID := c.conn.NextRequestID()

	builder, err := c.summaries.Register(requestID)
	if err != nil {
		return nil, err
	}
	defer c.summaries.Unregister(requestID)

	if err := c.conn.Send(wire.Message{
		Kind:    wire.KindReqAccountSummary,
		ReqID:   requestID,
		Account: c.cfg.Account,
		Tags:    tags,
	}); err != nil {
		return nil, err
	}

	values, waitErr := builder.Wait(ctx, c.requestTimeout())
	c.cancelRequest(wire.KindCancelAccountSummary, requestID)

	if waitErr != nil {
		return nil, waitErr
	}
	return values, nil
}

// GetPositions requests all held positions. Positions have no per-request
// correlation at the venue, so one reserved slot serializes callers: a
// second concurrent request is rejected as a duplicate.
func (c *Client) GetPositions(ctx context.Context) ([]types.Position, error) {
	builder, err := c.positions.Register(positionsRequestID)
	if err != nil {
		return nil, err
	}
	defer c.positions.Unregister(positionsRequestID)

	if err := c.conn.Send(wire.Message{Kind: wire.KindReqPositions}); err != nil {
		return nil, err
	}

	positions, waitErr := builder.Wait(ctx, c.requestTimeout())
	c.cancelRequest(wire.KindCancelPositions, 0)

	if waitErr != nil {
		return nil, waitErr
	}
	return positions, nil
}

// GetAccountPnL subscribes to the account PnL stream and resolves on the
// first update.
func (c *Client) GetAccountPnL(ctx context.Context, account string) (types.PnL, error) {
	requestID := c.conn.NextRequestID()

	builder, err := c.pnl.Register(requestID)
	if err != nil {
		return types.PnL{}, err
	}
	defer c.pnl.Unregister(requestID)

	if err := c.conn.Send(wire.Message{
		Kind:    wire.KindReqPnL,
		ReqID:   requestID,
		Account: account,
	}); err != nil {
		return types.PnL{}, err
	}

	pnl, waitErr := builder.Wait(ctx, c.requestTimeout())
	c.cancelRequest(wire.KindCancelPnL, requestID)

	if waitErr != nil {
		return types.PnL{}, waitErr
	}
	return pnl, nil
}

// GetPositionPnL subscribes to a single position's PnL stream and resolves
// on the first update.
func (c *Client) GetPositionPnL(ctx context.Context, account string, contractID int64) (types.PnL, error) {
	requestID := c.conn.NextRequestID()

	builder, err := c.pnl.Register(requestID)
	if err != nil {
		return types.PnL{}, err
	}
	defer c.pnl.Unregister(requestID)

	if err := c.conn.Send(wire.Message{
		Kind:       wire.KindReqPnLSingle,
		ReqID:      requestID,
		Account:    account,
		ContractID: contractID,
	}); err != nil {
		return types.PnL{}, err
	}

	pnl, waitErr := builder.Wait(ctx, c.requestTimeout())
	c.cancelRequest(wire.KindCancelPnLSingle, requestID)

	if waitErr != nil {
		return types.PnL{}, waitErr
	}
	return pnl, nil
}

// ResolveContract asks the venue for the full contract details matching the
// given partial contract.
func (c *Client) ResolveContract(ctx context.Context, contract types.Contract) ([]types.Contract, error) {
	requestID := c.conn.NextRequestID()

	builder, err := c.contracts.Register(requestID)
	if err != nil {
		return nil, err
	}
	defer c.contracts.Unregister(requestID)

	if err := c.conn.Send(wire.Message{
		Kind:     wire.KindReqContractDetails,
		ReqID:    requestID,
		Contract: &contract,
	}); err != nil {
		return nil, err
	}

	contracts, waitErr := builder.Wait(ctx, c.requestTimeout())
	if waitErr != nil {
		return nil, waitErr
	}
	if len(contracts) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no contract matches %s", contract.Symbol)
	}
	return contracts, nil
}

// cancelRequest sends the compensating cancel for a finished request. The
// cancel is never skipped; a send failure only logs since the connection
// layer handles the retry.
func (c *Client) cancelRequest(kind wire.Kind, requestID int64) {
	if err := c.conn.Send(wire.Message{Kind: kind, ReqID: requestID}); err != nil {
		c.logger.Warn("cancel send failed",
			zap.String("kind", string(kind)), zap.Int64("reqId", requestID), zap.Error(err))
	}
}
