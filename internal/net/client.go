package net

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// PingHandler receives decoded ping broadcasts on a viewer instance.
type PingHandler func(name string, args []any)

// Client connects a viewer instance to a host's hub and dispatches
// incoming ping frames.
type Client struct {
	log     zerolog.Logger
	conn    *websocket.Conn
	handler PingHandler
}

// Dial connects to a host hub at url (ws:// or wss://).
func Dial(ctx context.Context, url string, log zerolog.Logger, handler PingHandler) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to host %s: %w", url, err)
	}
	return &Client{
		log:     log,
		conn:    conn,
		handler: handler,
	}, nil
}

// Run reads frames until the connection drops or ctx is cancelled.
// Malformed frames are logged and skipped.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading from host: %w", err)
		}

		name, args, err := DecodePing(frame)
		if err != nil {
			c.log.Warn().Err(err).Msg("discarding malformed ping frame")
			continue
		}
		c.handler(name, args)
	}
}

// Close drops the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
