package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"servifast_backend/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

// Client wraps one WebSocket connection. All writes go through the Send
// channel; the write pump is the only goroutine touching the connection for
// output.
type Client struct {
	UserID string
	conn   *websocket.Conn
	send   chan Event

	closeOnce sync.Once
	done      chan struct{}

	// onMessage handles an incoming text frame. Nil for dashboard clients,
	// which only listen.
	onMessage func(data []byte)

	// onClose runs exactly once when the connection tears down.
	onClose func()
}

func newClient(conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan Event, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// TrySend queues the event without blocking. False means the client's buffer
// is full or the connection is closing, and the caller should drop the client.
func (c *Client) TrySend(event Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Close tears the connection down. Safe to call from any goroutine, any
// number of times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	})
}

func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		if c.onMessage != nil {
			c.onMessage(data)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) run() {
	go c.writePump()
	go c.readPump()
}
