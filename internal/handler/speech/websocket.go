// Package speech streams spoken lines to connected clients over WebSocket.
package speech

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	speechService "github.com/Batoli19/cavista/internal/service/speech"
)

// Handler drains the speech queue into client connections.
type Handler struct {
	queue    *speechService.Queue
	upgrader websocket.Upgrader
}

// New creates the speech handler.
func New(queue *speechService.Queue) *Handler {
	return &Handler{
		queue: queue,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the speech WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/speech/{sessionKey}", h.handleSpeech)
}

type utterance struct {
	SayText string `json:"sayText"`
}

func (h *Handler) handleSpeech(w http.ResponseWriter, r *http.Request) {
	sessionKey := chi.URLParam(r, "sessionKey")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[speech] upgrade failed for session=%s: %v", sessionKey, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends payloads; the read pump only detects closure.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Printf("[speech] client connected session=%s", sessionKey)
	for {
		text, err := h.queue.Next(ctx, sessionKey)
		if err != nil {
			log.Printf("[speech] client disconnected session=%s", sessionKey)
			return
		}
		if err := conn.WriteJSON(utterance{SayText: text}); err != nil {
			log.Printf("[speech] write failed session=%s: %v", sessionKey, err)
			return
		}
	}
}
