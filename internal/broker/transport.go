// Package broker implements the resilient client for the live venue
// gateway: connection management with automatic reconnect, request
// correlation, streaming market data fan-out and order tracking.
package broker

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/quantarc/tradegate/internal/broker/wire"
	"github.com/quantarc/tradegate/pkg/errors"
)

// Transport is one framed connection to the venue gateway.
type Transport interface {
	// Send writes one message frame. Safe for concurrent use.
	Send(msg wire.Message) error
	// Receive blocks for the next inbound frame.
	Receive() (wire.Message, error)
	// Close tears the connection down; a blocked Receive returns an error.
	Close() error
}

// Dialer opens a Transport to the given URL.
type Dialer func(ctx context.Context, url string) (Transport, error)

type wsTransport struct {
	conn *websocket.Conn

	// writeMu serializes writers; gorilla/websocket allows one concurrent
	// writer only.
	writeMu sync.Mutex
}

var _ Transport = (*wsTransport)(nil)

// DialWebsocket opens a websocket transport. It is the production Dialer.
func DialWebsocket(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDialFailed, err, "dial %s", url)
	}
	return &wsTransport{conn: conn}, nil
}

func (t *wsTransport) Send(msg wire.Message) error {
	data, err := wire.Encode(msg)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Wrap(errors.ErrCodeTransportClosed, "write frame", err)
	}
	return nil
}

func (t *wsTransport) Receive() (wire.Message, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return wire.Message{}, errors.Wrap(errors.ErrCodeTransportClosed, "read frame", err)
	}
	return wire.Decode(data)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
