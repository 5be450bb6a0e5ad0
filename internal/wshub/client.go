// Package wshub holds the per-connection WebSocket plumbing: an outbound
// queue drained by a write pump, decoupling room broadcasts from slow sockets.
package wshub

import (
	"context"
	"log"

	"github.com/coder/websocket"

	"typeracer/internal/protocol"
)

const sendBuffer = 64

// Client represents a single WebSocket connection.
type Client struct {
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
}

func NewClient(playerID string, conn *websocket.Conn) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}
}

// Queue encodes and enqueues a message without blocking. A full queue drops
// the message and reports false; the subscriber lag path resynchronizes the
// client later.
func (c *Client) Queue(msg protocol.ServerMsg) bool {
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("[WS] Encode error: %v\n", err)
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// WritePump reads from the Send channel and writes to the connection. It
// returns on the first write error; the caller treats that as a disconnect.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}
