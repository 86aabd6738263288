package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/golfteamapp/golfteam-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-authenticated; cross-origin browser clients are expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	hub *live.Hub
	log *slog.Logger
}

func NewLiveHandler(hub *live.Hub, log *slog.Logger) *LiveHandler {
	return &LiveHandler{hub: hub, log: log}
}

// Subscribe upgrades the connection and joins the event's score feed room.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if _, err := getIDFromURL(r, "eventID"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	room := chi.URLParam(r, "eventID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	client := live.NewClient(h.hub, conn, room, h.log)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
