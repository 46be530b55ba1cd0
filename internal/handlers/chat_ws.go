package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nafsiapp/nafsi-backend/internal/services"
)

// Shared upgrader for chat WebSocket connections.
var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatClientMessage represents messages coming from the frontend over WebSocket.
type ChatClientMessage struct {
	Type   string `json:"type"` // "message", "typing_start", "typing_stop", "ping"
	RoomID string `json:"room_id"`
	Text   string `json:"text,omitempty"`
}

// ChatWebSocket handles real-time room chat over WebSocket.
// Authentication uses the session token (Authorization: Bearer <token>,
// or `token` query parameter for browser clients). Each connection is
// bound to a single room via the `room_id` query parameter.
func ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	room, ok := appStore.Room(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if !room.HasMember(user.ID) {
		http.Error(w, "you must be a member of this room", http.StatusForbidden)
		return
	}

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe to local events for this room (fed by Redis subscriber)
	eventsCh, unsubscribe := services.SubscribeRoom(roomID)
	defer unsubscribe()

	// Writer goroutine: forward events from hub to this WebSocket connection
	go func() {
		for evt := range eventsCh {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	// Reader loop: handle client messages
	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ChatClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			handleIncomingChatMessage(ctx, conn, user.ID, user.Name, roomID, msg.Text)
		case "typing_start":
			_ = services.PublishChatEvent(ctx, services.ChatEvent{
				Type:       services.EventTypeTypingStart,
				RoomID:     roomID,
				SenderID:   user.ID,
				SenderName: user.Name,
				Timestamp:  time.Now().UTC(),
			})
		case "typing_stop":
			_ = services.PublishChatEvent(ctx, services.ChatEvent{
				Type:       services.EventTypeTypingStop,
				RoomID:     roomID,
				SenderID:   user.ID,
				SenderName: user.Name,
				Timestamp:  time.Now().UTC(),
			})
		case "ping":
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		default:
			// Ignore unknown types
		}
	}
}

// handleIncomingChatMessage persists the message to MongoDB (best
// effort), publishes it via Redis, and acknowledges to the sender.
func handleIncomingChatMessage(
	ctx context.Context,
	conn *websocket.Conn,
	userID string,
	userName string,
	roomID string,
	text string,
) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	now := time.Now().UTC()

	services.SaveRoomMessageAsync(services.RoomMessage{
		RoomID:     roomID,
		SenderID:   userID,
		SenderName: userName,
		Text:       text,
		Timestamp:  now,
	})

	evt := services.ChatEvent{
		Type:       services.EventTypeMessage,
		RoomID:     roomID,
		SenderID:   userID,
		SenderName: userName,
		Text:       text,
		Timestamp:  now,
	}
	if err := services.PublishChatEvent(ctx, evt); err != nil {
		_ = conn.WriteJSON(services.ChatEvent{
			Type:      services.EventTypeError,
			RoomID:    roomID,
			Error:     "failed to deliver message",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	ack := evt
	ack.Type = services.EventTypeMessageAck
	_ = conn.WriteJSON(ack)
}
