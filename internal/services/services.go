// Package services defines the account / data-feed / order contract that both
// the live venue client and the deterministic simulator implement. Strategy
// code talks to these interfaces only and never knows which backend is active.
package services

import (
	"context"

	"github.com/quantarc/tradegate/internal/types"
)

// AccountService exposes account state queries.
type AccountService interface {
	// GetAccountSummary returns the requested summary tags.
	GetAccountSummary(ctx context.Context, tags []string) ([]types.AccountValue, error)
	// GetPositions returns all held positions.
	GetPositions(ctx context.Context) ([]types.Position, error)
	// GetAccountPnL returns the account-level PnL snapshot.
	GetAccountPnL(ctx context.Context, account string) (types.PnL, error)
	// GetPositionPnL returns the PnL snapshot for a single position.
	GetPositionPnL(ctx context.Context, account string, contractID int64) (types.PnL, error)
}

// DataFeedService exposes subscribed market-data feeds. A session handle
// identifies each independent reader.
type DataFeedService interface {
	// Subscribe attaches the session as a reader of the key's feed.
	Subscribe(session types.Session, key types.FeedKey) error
	// Read returns zero or more bars resampled to the requested interval.
	Read(session types.Session, key types.FeedKey, interval types.Interval) ([]types.Bar, error)
	// Unsubscribe detaches the session from the key's feed.
	Unsubscribe(session types.Session, key types.FeedKey) error
}

// OrderService exposes the order lifecycle.
type OrderService interface {
	// PlaceOrder submits an order for the contract and returns its order ID.
	PlaceOrder(ctx context.Context, contract types.Contract, order types.Order) (int64, error)
	// CancelOrder cancels a previously placed order.
	CancelOrder(ctx context.Context, orderID int64) error
}

// Backend bundles one coherent triple of services. The coordinator holds
// exactly one active Backend at a time.
type Backend struct {
	Account AccountService
	Feed    DataFeedService
	Orders  OrderService
}
