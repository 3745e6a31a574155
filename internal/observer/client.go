package observer

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/rope-survival/internal/sim"
)

// Client reads snapshots from an observer Server.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a ws:// or wss:// observer URL.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("observer: cannot dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Next blocks until the next snapshot arrives. Non-binary frames are
// skipped.
func (c *Client) Next() (sim.Snapshot, error) {
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return sim.Snapshot{}, fmt.Errorf("observer: %w", err)
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		return Decode(data)
	}
}

// Stream delivers snapshots to fn until ctx is done or the connection
// fails. It closes the client on return.
func (c *Client) Stream(ctx context.Context, fn func(sim.Snapshot)) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()
	defer c.conn.Close()

	for {
		snap, err := c.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(snap)
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
