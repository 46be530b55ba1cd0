package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nafsiapp/nafsi-backend/internal/i18n"
	"github.com/nafsiapp/nafsi-backend/internal/models"
	"github.com/nafsiapp/nafsi-backend/internal/services"
)

// RoomView is a chat room localized for the requested language.
type RoomView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	IsPrivate   bool     `json:"is_private"`
	OwnerID     string   `json:"owner_id,omitempty"`
	Members     []string `json:"members,omitempty"`

	// Recommended marks rooms suggested by the caller's assessment.
	Recommended bool `json:"recommended"`
}

type RoomsResponse struct {
	Success bool       `json:"success"`
	Rooms   []RoomView `json:"rooms"`
}

// GetRooms lists the rooms visible to the caller: official rooms plus
// private rooms they own or belong to.
func GetRooms(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	lang := langFrom(r)

	recommended := map[string]bool{}
	if user.AssessmentResult != nil {
		for _, id := range user.AssessmentResult.RecommendedRoomIDs {
			recommended[id] = true
		}
	}

	rooms := []RoomView{}
	for _, room := range appStore.Rooms(user.ID) {
		rooms = append(rooms, RoomView{
			ID:          room.ID,
			Name:        room.Name.In(lang),
			Description: room.Description.In(lang),
			Icon:        room.Icon,
			IsPrivate:   room.IsPrivate,
			OwnerID:     room.OwnerID,
			Members:     room.Members,
			Recommended: recommended[room.ID],
		})
	}

	writeJSON(w, http.StatusOK, RoomsResponse{Success: true, Rooms: rooms})
}

type CreateRoomRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
}

type RoomResponse struct {
	Success bool            `json:"success"`
	Room    models.ChatRoom `json:"room"`
}

// CreateRoom creates a private room owned by the caller.
func CreateRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req CreateRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	room, ok := appStore.CreateRoom(user.ID, req.Name, req.Description, req.MemberIDs)
	if !ok {
		writeError(w, http.StatusBadRequest, "Room name is required")
		return
	}
	writeJSON(w, http.StatusCreated, RoomResponse{Success: true, Room: room})
}

type ChatHistoryResponse struct {
	Success  bool                   `json:"success"`
	Messages []services.RoomMessage `json:"messages"`
	HasMore  bool                   `json:"has_more"`
}

// LoadChatHistory returns paginated room history (oldest-first within
// the page, newest page first via the `before` cursor).
func LoadChatHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	roomID := r.URL.Query().Get("room_id")
	room, ok := appStore.Room(roomID)
	if !ok {
		writeError(w, http.StatusNotFound, "Room not found")
		return
	}
	if !room.HasMember(user.ID) {
		writeError(w, http.StatusForbidden, "You are not a member of this room")
		return
	}

	var before *time.Time
	if s := r.URL.Query().Get("before"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid before timestamp")
			return
		}
		before = &t
	}

	limit := int64(50)
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			limit = n
		}
	}

	msgs, hasMore, err := services.LoadRoomMessages(r.Context(), roomID, before, limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, i18n.Message("error_unavailable", langFrom(r)))
		return
	}
	if msgs == nil {
		msgs = []services.RoomMessage{}
	}

	writeJSON(w, http.StatusOK, ChatHistoryResponse{Success: true, Messages: msgs, HasMore: hasMore})
}
