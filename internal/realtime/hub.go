package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the JSON message pushed to connected participants when a task
// changes.
type Event struct {
	Type    string `json:"type"`
	TaskID  uint   `json:"taskId"`
	ActorID uint   `json:"actorId"`
}

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu            sync.RWMutex
	userToClients map[uint]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			userToClients: make(map[uint]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userToClients[userID]; !ok {
		h.userToClients[userID] = make(map[Client]struct{})
	}
	h.userToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userToClients, userID)
		}
	}
}

// Broadcast sends a message to all clients of a user.
func (h *Hub) Broadcast(userID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.userToClients[userID]
	for c := range clients {
		if ok := c.Send(message); !ok {
			// client write failed; let the handler clean it up on its side
		}
	}
}

// BroadcastEvent fans a task event out to every listed user.
func (h *Hub) BroadcastEvent(userIDs []uint, evt Event) {
	message, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, id := range userIDs {
		h.Broadcast(id, message)
	}
}
