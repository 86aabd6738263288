package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/golfteamapp/golfteam-system/models"
)

// Message is the envelope pushed to live event feed subscribers.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	TypeScoreCreated = "SCORE_CREATED"
	TypeScoreUpdated = "SCORE_UPDATED"
	TypeScoreDeleted = "SCORE_DELETED"
)

// Hub fans score changes out to websocket clients grouped by event room.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.log.Info("live client joined", "room", client.Room, "clients", len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.log.Info("live client left", "room", client.Room, "clients", len(clients))
				}
			}
			h.mu.Unlock()
		}
	}
}

// ScoreCreated implements the score feed: push the new score to the
// event's room.
func (h *Hub) ScoreCreated(score *models.EventScore) {
	h.broadcastToRoom(roomID(score.EventID), Message{
		Type:    TypeScoreCreated,
		Payload: score,
		RoomID:  roomID(score.EventID),
	})
}

func (h *Hub) ScoreUpdated(score *models.EventScore) {
	h.broadcastToRoom(roomID(score.EventID), Message{
		Type:    TypeScoreUpdated,
		Payload: score,
		RoomID:  roomID(score.EventID),
	})
}

func (h *Hub) ScoreDeleted(eventID, scoreID int) {
	h.broadcastToRoom(roomID(eventID), Message{
		Type:    TypeScoreDeleted,
		Payload: map[string]int{"score_id": scoreID, "event_id": eventID},
		RoomID:  roomID(eventID),
	})
}

func (h *Hub) broadcastToRoom(room string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.log.Error("failed to marshal live message", "room", room, "error", err)
		return
	}

	for client := range clients {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			// Slow client: skip rather than block the broadcast.
		}
		client.mu.Unlock()
	}
}

func roomID(eventID int) string {
	return strconv.Itoa(eventID)
}
