package socket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

// envelope is the JSON frame exchanged with clients in both directions.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one websocket connection. It implements game.Conn, so the
// coordinator can push events without knowing about websockets.
type Client struct {
	id       string
	gateway  *Gateway
	conn     *websocket.Conn
	send     chan outbound
	done     chan struct{}
	debounce *debouncer

	mu       sync.Mutex
	username string

	closed    atomic.Bool
	closeOnce sync.Once
}

func newClient(gateway *Gateway, conn *websocket.Conn, username string) *Client {
	return &Client{
		id:       uuid.NewString(),
		gateway:  gateway,
		conn:     conn,
		send:     make(chan outbound, sendBuffer),
		done:     make(chan struct{}),
		debounce: newDebouncer(DebounceWindow),
		username: username,
	}
}

// ID implements game.Conn.
func (c *Client) ID() string { return c.id }

// Send implements game.Conn. A full buffer drops the event rather than block
// the caller; the client can recover with a rejoin snapshot.
func (c *Client) Send(event string, payload interface{}) {
	if c.closed.Load() {
		return
	}
	select {
	case c.send <- outbound{Type: event, Payload: payload}:
	default:
		log.Printf("Send buffer full for socket %s, dropping %s", c.id, event)
	}
}

// IsLive implements game.Conn.
func (c *Client) IsLive() bool { return !c.closed.Load() }

// Username returns the declared identity, empty before authentication.
func (c *Client) Username() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// setUsername declares the connection's identity. The first non-empty value
// wins; a connection cannot switch identities.
func (c *Client) setUsername(username string) {
	if username == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.username == "" {
		c.username = username
	}
}

// close marks the connection dead. The send channel stays open so concurrent
// Send calls cannot hit a closed channel; writePump drains via done instead.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

// readPump consumes inbound frames until the connection dies, then reports
// the disconnect to the coordinator.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.close()
		_ = c.conn.Close()
		c.gateway.coordinator.HandleDisconnect(ctx, c.Username(), c)
		log.Printf("❌ Socket disconnected: %s", c.id)
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("Socket %s read error: %v", c.id, err)
			}
			return
		}

		var msg envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Socket %s sent malformed frame: %v", c.id, err)
			continue
		}
		c.gateway.dispatch(ctx, c, msg)
	}
}

// writePump serializes outbound events and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
