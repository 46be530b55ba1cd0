package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nafsiapp/nafsi-backend/internal/database"
)

// RoomMessage is a single chat-room message stored in MongoDB.
// Flat collection, one document per message, for pagination.
type RoomMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID     string             `bson:"room_id" json:"room_id"`
	SenderID   string             `bson:"sender_id" json:"sender_id"`
	SenderName string             `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	Text       string             `bson:"text" json:"text"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// EnsureChatIndexes configures indexes for the room_messages collection.
// Called on startup from main after Mongo has connected.
func EnsureChatIndexes(ctx context.Context) error {
	if database.DB == nil {
		return fmt.Errorf("mongo not connected")
	}
	col := database.DB.Collection("room_messages")

	// Compound index on (room_id, timestamp) to support efficient pagination.
	idx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_room_timestamp"),
	}
	_, err := col.Indexes().CreateOne(ctx, idx)
	return err
}

// SaveRoomMessageAsync persists a message to MongoDB asynchronously.
// Fire-and-forget: history is best effort and never blocks delivery.
func SaveRoomMessageAsync(msg RoomMessage) {
	if database.DB == nil {
		return
	}
	go func(m RoomMessage) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if m.Timestamp.IsZero() {
			m.Timestamp = time.Now().UTC()
		}
		_, _ = database.DB.Collection("room_messages").InsertOne(ctx, m)
	}(msg)
}

// LoadRoomMessages returns paginated chat history for a room, oldest
// first, with a has-more flag for newest-first scrolling.
func LoadRoomMessages(ctx context.Context, roomID string, before *time.Time, limit int64) ([]RoomMessage, bool, error) {
	if database.DB == nil {
		return nil, false, fmt.Errorf("chat history unavailable: mongo not connected")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	col := database.DB.Collection("room_messages")

	filter := bson.M{"room_id": roomID}
	if before != nil {
		filter["timestamp"] = bson.M{"$lt": before.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var msgs []RoomMessage
	for cur.Next(ctx) {
		var m RoomMessage
		if err := cur.Decode(&m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	if err := cur.Err(); err != nil {
		return nil, false, err
	}

	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:len(msgs)-1]
	}

	// Reverse to oldest-first for the UI.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return msgs, hasMore, nil
}
