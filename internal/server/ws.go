package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ScoreFeedHandler pushes live scoring events to WebSocket clients. Unlike
// a polling feed, events arrive only when the pipeline publishes them, so
// idle sessions cost nothing.
type ScoreFeedHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewScoreFeedHandler creates an empty ScoreFeedHandler.
func NewScoreFeedHandler() *ScoreFeedHandler {
	return &ScoreFeedHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ScoreFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// Publish broadcasts one event to all connected clients. It is safe to call
// from the pipeline goroutine; marshal errors drop the event.
func (h *ScoreFeedHandler) Publish(event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("score feed marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected feed clients.
func (h *ScoreFeedHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
