package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// TrackingEvent is the change notification broadcast after each manual
// mutation. No replay: a listener that misses one re-reads state.
type TrackingEvent struct {
	Type  string      `json:"type"` // "water" | "calories" | "mood"
	Value interface{} `json:"value"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastTracking pushes a tracking event to every open connection the
// user has. Write errors are ignored; the read loop tears dead clients down.
func (h *RealtimeHub) BroadcastTracking(userID uint, ev TrackingEvent) {
	msg, _ := json.Marshal(map[string]interface{}{
		"kind":  "tracking.updated",
		"type":  ev.Type,
		"value": ev.Value,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
