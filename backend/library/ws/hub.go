package ws

import (
	"encoding/json"
	"sync"
	"time"

	"lockbox/backend/common"
)

// Event is one push to connected chat viewers. The REST feed stays the
// source of truth; events only tell clients it is worth re-fetching.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event types
const (
	EventChatMessage = "chat.message"
	EventUserJoined  = "user.joined"
	EventUserLeft    = "user.left"
)

// Hub maintains the set of connected clients for the single global chat room
// and fans events out to all of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data := mustMarshal(event)
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected client. Never blocks the
// caller; slow clients get dropped instead.
func (h *Hub) Broadcast(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		common.SysError("ws: broadcast queue full, dropping event " + event.Type)
	}
}

// ClientCount is decorative: it feeds the "users online" badge and nothing
// else.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		common.SysError("ws: failed to marshal event: " + err.Error())
		return []byte("{}")
	}
	return b
}
