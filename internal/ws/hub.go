package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const TypeCostUpdate = "cost_update"

// Event is pushed to the owner's dashboards whenever something that feeds
// the HPP changes.
type Event struct {
	Type     string      `json:"type"`
	Action   string      `json:"action"` // created | updated | deleted | snapshot | cleared
	Entity   string      `json:"entity"`
	EntityID string      `json:"entity_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one dashboard connection of one owner.
type Client struct {
	Conn    Conn
	OwnerID uuid.UUID
}

type message struct {
	ownerID uuid.UUID
	payload []byte
}

type Hub struct {
	clients    map[Conn]uuid.UUID
	register   chan Client
	unregister chan Conn
	broadcast  chan message
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[Conn]uuid.UUID),
		register:   make(chan Client),
		unregister: make(chan Conn),
		broadcast:  make(chan message),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Publish sends ev to every connection of ownerID without blocking the caller.
func (h *Hub) Publish(ownerID uuid.UUID, ev Event) {
	if ev.Type == "" {
		ev.Type = TypeCostUpdate
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("ws event not serializable", zap.String("entity", ev.Entity), zap.Error(err))
		return
	}
	go func() {
		select {
		case h.broadcast <- message{ownerID: ownerID, payload: payload}:
		case <-h.done:
		}
	}()
}

// Join adds a connection. It is a no-op once the hub has stopped.
func (h *Hub) Join(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

// Leave removes and closes a connection.
func (h *Hub) Leave(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Run serves the channels until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.Conn] = c.OwnerID
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.String("owner_id", c.OwnerID.String()))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for conn, owner := range h.clients {
				if owner != msg.ownerID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					h.log.Debug("ws write failed; dropping client", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
