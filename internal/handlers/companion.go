package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var companionUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CompanionClientMessage represents messages from the frontend on the
// companion WebSocket.
type CompanionClientMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text,omitempty"`
}

// CompanionEvent is what the companion WebSocket sends back. Replies
// stream as "chunk" events followed by a "done" event carrying the
// full text.
type CompanionEvent struct {
	Type  string `json:"type"` // "chunk", "done", "error"
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// CompanionWebSocket handles the one-on-one AI companion chat. A single
// Gemini chat session backs all connections, so the conversation keeps
// its context across reconnects.
func CompanionWebSocket(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(r); !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}
	if gemini == nil {
		http.Error(w, "companion is not available", http.StatusServiceUnavailable)
		return
	}

	conn, err := companionUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(16 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var msg CompanionClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			text := strings.TrimSpace(msg.Text)
			if text == "" {
				continue
			}

			full, err := gemini.SendCompanionMessage(r.Context(), text, func(chunk string) error {
				return conn.WriteJSON(CompanionEvent{Type: "chunk", Text: chunk})
			})
			if err != nil {
				_ = conn.WriteJSON(CompanionEvent{
					Type:  "error",
					Error: "the companion could not reply, please try again",
				})
				continue
			}
			_ = conn.WriteJSON(CompanionEvent{Type: "done", Text: full})
		case "ping":
			// Deadline already refreshed above.
		default:
			// Ignore unknown types
		}
	}
}
