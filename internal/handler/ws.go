package handler

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"newsdesk/internal/domain"
)

const wsWriteTimeout = 5 * time.Second

// SnapshotMessage is pushed to every connected terminal after a refresh.
type SnapshotMessage struct {
	Type     string        `json:"type"`
	Category string        `json:"category"`
	Count    int           `json:"count"`
	Items    []domain.Item `json:"items"`
	PushedAt time.Time     `json:"pushed_at"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(msg SnapshotMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// Hub fans refreshed snapshots out to connected websocket clients. Slow or
// dead clients are dropped on the first failed write.
type Hub struct {
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	now      func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			// The terminal is a browser app served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		now: time.Now,
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastSnapshot pushes a refreshed category stream to every client.
func (h *Hub) BroadcastSnapshot(category string, items []domain.Item) {
	msg := SnapshotMessage{
		Type:     "snapshot",
		Category: category,
		Count:    len(items),
		Items:    items,
		PushedAt: h.now(),
	}
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Printf("ws: dropping client: %v", err)
			c.conn.Close()
			h.unregister(c)
		}
	}
}

// ServeWS upgrades the connection and keeps it registered until the client
// goes away. Inbound messages are discarded; the socket is push-only.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.hub.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	client := &wsClient{conn: conn}
	h.hub.register(client)
	defer func() {
		h.hub.unregister(client)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
