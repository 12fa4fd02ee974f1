package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coder-dipesh/zentrol/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHub broadcasts fired gesture events and performance snapshots to
// connected WebSocket clients. It is push-driven: the pipeline calls
// Broadcast when a gesture fires, there is no polling loop.
type EventsHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventsHub creates an empty hub.
func NewEventsHub() *EventsHub {
	return &EventsHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventsHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes a fired gesture event to all connected clients. It has
// the app.Listener signature so it can be registered directly on the
// pipeline.
func (h *EventsHub) Broadcast(ev engine.Event, perf engine.PerfSnapshot) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	h.mu.RUnlock()

	msg, err := json.Marshal(map[string]any{
		"type":      "gesture",
		"event":     ev,
		"perf":      perf,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("marshal gesture event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
}
