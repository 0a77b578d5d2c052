package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/studypilot/studypilot/internal/logging"
)

// Event is one message pushed to WebSocket clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHub fans events out to connected WebSocket clients.
type EventHub struct {
	upgrader websocket.Upgrader

	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}

	mu sync.Mutex
}

// NewEventHub creates an event hub.
func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is CORS-open; the socket follows suit.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 32),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until Stop is called.
func (h *EventHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(event); err != nil {
					logging.Debug("websocket write failed: %v", err)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down and closes all connections.
func (h *EventHub) Stop() {
	close(h.done)
}

// Broadcast queues an event for all clients. Drops the event if the hub is
// saturated rather than blocking a request handler.
func (h *EventHub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		logging.Warn("websocket broadcast queue full, dropping %s event", event.Type)
	}
}

// HandleWS upgrades a request to a WebSocket connection.
func (h *EventHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed: %v", err)
		return
	}

	// A stopped hub no longer drains these channels; never block the handler
	// on one.
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Drain client frames so pings and closes are processed.
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
				conn.Close()
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
