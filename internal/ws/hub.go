package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/model"
)

// Event is the envelope pushed to chat clients.
type Event struct {
	Type      string         `json:"type"` // "message" or "read"
	Message   *model.Message `json:"message,omitempty"`
	MessageID int64          `json:"message_id,omitempty"`
}

// Hub fans chat events out to websocket clients, grouped by chat room.
// Delivery is best effort: a dead connection is dropped from the room and
// the event is not retried.
type Hub struct {
	mu     sync.Mutex
	rooms  map[int64]map[*websocket.Conn]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Join registers a connection in a room.
func (h *Hub) Join(chatRoomID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[chatRoomID]
	if !ok {
		room = make(map[*websocket.Conn]struct{})
		h.rooms[chatRoomID] = room
	}
	room[conn] = struct{}{}

	h.logger.Debug("Client joined chat room",
		zap.Int64("chat_room_id", chatRoomID),
		zap.Int("clients", len(room)),
	)
}

// Leave removes a connection from a room, dropping the room when empty.
func (h *Hub) Leave(chatRoomID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[chatRoomID]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, chatRoomID)
	}
}

// BroadcastMessage pushes a new chat message to the room's clients.
func (h *Hub) BroadcastMessage(chatRoomID int64, msg *model.Message) {
	h.broadcast(chatRoomID, Event{Type: "message", Message: msg})
}

// BroadcastRead pushes a read receipt to the room's clients.
func (h *Hub) BroadcastRead(chatRoomID, messageID int64) {
	h.broadcast(chatRoomID, Event{Type: "read", MessageID: messageID})
}

// broadcast holds the hub lock for the duration of the writes, which also
// serializes writes on each connection.
func (h *Hub) broadcast(chatRoomID int64, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[chatRoomID]
	if !ok {
		return
	}

	for conn := range room {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("Dropping dead chat client",
				zap.Int64("chat_room_id", chatRoomID),
				zap.Error(err),
			)
			conn.Close()
			delete(room, conn)
		}
	}
	if len(room) == 0 {
		delete(h.rooms, chatRoomID)
	}
}
