package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

// hub tracks WebSocket clients and fans pipeline events out to them.
type hub struct {
	logger     logger.Logger
	maxClients int
	upgrader   websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newHub(maxClients int, log logger.Logger) *hub {
	return &hub{
		logger:     log,
		maxClients: maxClients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is allow-all, so is the upgrade check.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// handleWS upgrades the connection, registers it and runs the read loop.
// Client messages are ignored except for ping, which gets a pong back.
func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.mu.Lock()
	if len(h.conns) >= h.maxClients {
		h.mu.Unlock()
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "WebSocket upgrade failed: %v", err)
		return
	}

	if !h.register(conn) {
		h.logger.Warn(ctx, "Rejecting WebSocket client, hub is full")
		conn.Close()
		return
	}

	h.logger.Info(ctx, "WebSocket client connected (%d total)", h.clientCount())

	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		if msg.Type == "ping" {
			h.writeJSON(conn, map[string]string{"type": "pong"})
		}
	}
}

// register adds a connection unless the hub is at capacity. The cap must be
// enforced here: two connects can both pass the pre-upgrade check before
// either is counted.
func (h *hub) register(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) >= h.maxClients {
		return false
	}
	h.conns[conn] = true
	return true
}

// Broadcast sends an event to every connected client, pruning connections
// whose writes fail.
func (h *hub) Broadcast(ctx context.Context, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error(ctx, "Failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug(ctx, "Dropping dead WebSocket client: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *hub) writeJSON(conn *websocket.Conn, v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.WriteJSON(v)
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	remaining := len(h.conns)
	h.mu.Unlock()

	h.logger.Info(context.Background(), "WebSocket client disconnected (%d remaining)", remaining)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
