package socket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"colorgrid_server/game"

	"github.com/gorilla/websocket"
)

// Inbound event names. Each maps to exactly one queue or session operation.
const (
	eventFindMatch   = "find_match"
	eventJoinGame    = "join_game"
	eventMakeMove    = "make_move"
	eventForfeit     = "forfeit"
	eventLeaveQueue  = "leave_queue"
	eventPing        = "ping"
	eventSetUsername = "set_username"
)

// Gateway upgrades websocket connections and routes their events into the
// game coordinator.
type Gateway struct {
	coordinator *game.Coordinator
	upgrader    websocket.Upgrader
}

// NewGateway initializes the websocket gateway.
func NewGateway(coordinator *game.Coordinator) *Gateway {
	return &Gateway{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS handles GET /ws. The username query parameter is optional: a
// connection without an identity is accepted for diagnostics but cannot
// queue or play until it declares one.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket: %v", err)
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		log.Printf("⚠️ Socket connected without username, accepting for diagnostics")
	}

	client := newClient(g, conn, username)
	log.Printf("✅ Socket connected: %s (user %q)", client.ID(), username)

	go client.writePump()
	go client.readPump(context.Background())
}

type identifiedPayload struct {
	Username string `json:"username"`
	GameID   string `json:"gameId"`
}

type movePayload struct {
	GameID string `json:"gameId"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player string `json:"player"`
}

type pingPayload struct {
	Timestamp int64 `json:"timestamp"`
}

type pongPayload struct {
	Timestamp int64  `json:"timestamp"`
	ServerID  string `json:"serverId"`
	Username  string `json:"username,omitempty"`
}

// dispatch routes one inbound frame. Liveness probes and identity declaration
// bypass flood suppression; everything else gets one accepted invocation per
// event type per window.
func (g *Gateway) dispatch(ctx context.Context, c *Client, msg envelope) {
	switch msg.Type {
	case eventPing:
		var p pingPayload
		_ = json.Unmarshal(msg.Payload, &p)
		if p.Timestamp == 0 {
			p.Timestamp = time.Now().UnixMilli()
		}
		c.Send("pong", pongPayload{Timestamp: p.Timestamp, ServerID: c.ID(), Username: c.Username()})
		return
	case eventSetUsername:
		var p identifiedPayload
		_ = json.Unmarshal(msg.Payload, &p)
		c.setUsername(p.Username)
		return
	}

	if !c.debounce.Allow(msg.Type) {
		log.Printf("Debounced %s event from socket %s", msg.Type, c.ID())
		return
	}

	switch msg.Type {
	case eventFindMatch:
		var p identifiedPayload
		_ = json.Unmarshal(msg.Payload, &p)
		username := g.identity(c, p.Username)
		if username == "" {
			return
		}
		g.coordinator.HandleFindMatch(ctx, username, c)

	case eventJoinGame:
		var p identifiedPayload
		_ = json.Unmarshal(msg.Payload, &p)
		username := g.identity(c, p.Username)
		if username == "" {
			return
		}
		if p.GameID != "" {
			g.coordinator.HandleJoinGame(ctx, username, c, p.GameID)
		} else {
			g.coordinator.HandleFindMatch(ctx, username, c)
		}

	case eventMakeMove:
		var p movePayload
		_ = json.Unmarshal(msg.Payload, &p)
		username := g.identity(c, p.Player)
		if username == "" || p.GameID == "" {
			return
		}
		g.coordinator.HandleMove(ctx, username, p.GameID, p.Row, p.Col)

	case eventForfeit:
		var p identifiedPayload
		_ = json.Unmarshal(msg.Payload, &p)
		username := g.identity(c, p.Username)
		if username == "" || p.GameID == "" {
			return
		}
		g.coordinator.HandleForfeit(ctx, username, p.GameID)

	case eventLeaveQueue:
		var p identifiedPayload
		_ = json.Unmarshal(msg.Payload, &p)
		username := g.identity(c, p.Username)
		if username == "" {
			return
		}
		g.coordinator.HandleWithdraw(ctx, username)
		c.Send(game.EventMatchmakingStatus, game.MatchmakingStatusPayload{
			Status:   "canceled",
			Username: username,
		})

	default:
		log.Printf("Unknown event %q from socket %s", msg.Type, c.ID())
	}
}

// identity resolves the acting username for an event: the connection's
// declared identity wins, otherwise the payload's username is adopted as the
// connection identity. An identity-less event is dropped.
func (g *Gateway) identity(c *Client, fromPayload string) string {
	if u := c.Username(); u != "" {
		return u
	}
	if fromPayload != "" {
		c.setUsername(fromPayload)
		return fromPayload
	}
	log.Printf("Dropping event from unidentified socket %s", c.ID())
	return ""
}
