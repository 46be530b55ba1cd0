package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/nafsiapp/nafsi-backend/internal/database"
)

// Chat event types delivered over WebSocket.
const (
	EventTypeMessage     = "message"
	EventTypeMessageAck  = "message_ack"
	EventTypeTypingStart = "typing_start"
	EventTypeTypingStop  = "typing_stop"
	EventTypeError       = "error"
)

// ChatEvent is the payload broadcast over Redis and WebSocket.
type ChatEvent struct {
	Type       string    `json:"type"`
	RoomID     string    `json:"room_id,omitempty"`
	SenderID   string    `json:"sender_id,omitempty"`
	SenderName string    `json:"sender_name,omitempty"`
	Text       string    `json:"text,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// chatHub fans incoming Redis events out to the WebSocket connections
// subscribed to each room on this instance.
type chatHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan ChatEvent]struct{} // room id -> channels
}

var (
	hub          = &chatHub{subscribers: make(map[string]map[chan ChatEvent]struct{})}
	redisStarted sync.Once
)

// SubscribeRoom registers a subscriber channel for a room. The returned
// function unsubscribes and closes the channel.
func SubscribeRoom(roomID string) (<-chan ChatEvent, func()) {
	ch := make(chan ChatEvent, 32)

	hub.mu.Lock()
	if hub.subscribers[roomID] == nil {
		hub.subscribers[roomID] = make(map[chan ChatEvent]struct{})
	}
	hub.subscribers[roomID][ch] = struct{}{}
	hub.mu.Unlock()

	unsubscribe := func() {
		hub.mu.Lock()
		if subs, ok := hub.subscribers[roomID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(hub.subscribers, roomID)
			}
		}
		hub.mu.Unlock()
	}
	return ch, unsubscribe
}

// fanOutChatEvent delivers an event to all local subscribers of its
// room. Slow subscribers are skipped rather than blocking the hub.
func fanOutChatEvent(event ChatEvent) {
	if event.RoomID == "" {
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for ch := range hub.subscribers[event.RoomID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishChatEvent publishes an event to Redis so every instance's hub
// sees it, including this one.
func PublishChatEvent(ctx context.Context, event ChatEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, "chat:room:"+event.RoomID, data).Err()
}

// StartRedisChatSubscriber ensures a single shared Redis listener per instance.
func StartRedisChatSubscriber(ctx context.Context) {
	redisStarted.Do(func() {
		go runRedisSubscriber(ctx)
	})
}

func runRedisSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; chat subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, "chat:room:*")
			defer pubsub.Close()

			log.Println("✅ Chat Redis subscriber started (pattern: chat:room:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event ChatEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal chat event: %v", err)
					continue
				}

				fanOutChatEvent(event)
			}
		}()
	}
}
