package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// Event names sent over the feed.
const (
	EventSubscribed = "subscribed"
	EventMoved      = "moved"
	EventGameOver   = "game_over"
	EventReset      = "reset"
	EventDeleted    = "deleted"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one feed update.
type Message struct {
	SessionID string        `json:"session_id"`
	Event     string        `json:"event"`
	State     *session.View `json:"state,omitempty"`
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	hello     []byte
}

// Hub fans session updates out to WebSocket subscribers.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	sessions   map[string]map[*client]bool
	broadcast  chan *Message
	register   chan *client
	unregister chan *client
	done       chan struct{}

	logger *log.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to sessionID.
// The current state is sent first.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, current session.View) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	hello, err := json.Marshal(&Message{SessionID: current.ID, Event: EventSubscribed, State: &current})
	if err != nil {
		h.logger.Error("cannot marshal websocket message", "error", err)
		conn.Close()
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: current.ID,
		hello:     hello,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Broadcast sends an event to every subscriber of a session.
// It is a no-op once the hub has stopped.
func (h *Hub) Broadcast(sessionID, event string, state *session.View) {
	msg := &Message{SessionID: sessionID, Event: event, State: state}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) registerClient(c *client) {
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*client]bool)
	}
	h.sessions[c.sessionID][c] = true
	c.send <- c.hello

	h.logger.Debug("feed client registered",
		"session", c.sessionID, "clients", len(h.sessions[c.sessionID]))
}

func (h *Hub) unregisterClient(c *client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}

	h.logger.Debug("feed client unregistered",
		"session", c.sessionID, "clients", len(clients))
}

func (h *Hub) broadcastMessage(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot marshal websocket message", "error", err)
		return
	}

	for c := range h.sessions[msg.SessionID] {
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop it.
			h.unregisterClient(c)
		}
	}

	if msg.Event == EventDeleted {
		for c := range h.sessions[msg.SessionID] {
			h.unregisterClient(c)
		}
	}
}

// readPump discards client messages and detects disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket closed", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages, one WebSocket frame per message.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
