package handlers

import (
	"net/http"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

// Person is a community member as seen on the find-people page, with
// the caller's relationship to them.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`

	// Relation is one of "friends", "pending_outgoing",
	// "pending_incoming" or "none".
	Relation string `json:"relation"`
}

type PeopleResponse struct {
	Success bool     `json:"success"`
	People  []Person `json:"people"`
}

// GetPeople lists every other user with the caller's relation to each.
func GetPeople(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	people := []Person{}
	for _, other := range appStore.Users() {
		if other.ID == user.ID {
			continue
		}
		people = append(people, Person{
			ID:       other.ID,
			Name:     other.Name,
			Avatar:   other.Avatar,
			Bio:      other.Bio,
			Relation: relationBetween(user, other.ID),
		})
	}

	writeJSON(w, http.StatusOK, PeopleResponse{Success: true, People: people})
}

func relationBetween(user models.User, otherID string) string {
	for _, id := range user.Friends {
		if id == otherID {
			return "friends"
		}
	}
	req, ok := appStore.RequestBetween(user.ID, otherID)
	if !ok || req.Status != models.FriendRequestPending {
		return "none"
	}
	if req.FromUserID == user.ID {
		return "pending_outgoing"
	}
	return "pending_incoming"
}

type FriendsResponse struct {
	Success bool     `json:"success"`
	Friends []Person `json:"friends"`
}

// GetFriends lists the caller's friends.
func GetFriends(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	friends := []Person{}
	for _, f := range appStore.Friends(user.ID) {
		friends = append(friends, Person{
			ID:       f.ID,
			Name:     f.Name,
			Avatar:   f.Avatar,
			Bio:      f.Bio,
			Relation: "friends",
		})
	}
	writeJSON(w, http.StatusOK, FriendsResponse{Success: true, Friends: friends})
}

// IncomingRequest pairs a pending request with its sender's details.
type IncomingRequest struct {
	FromUserID string `json:"from_user_id"`
	FromName   string `json:"from_name"`
	FromAvatar string `json:"from_avatar,omitempty"`
}

type RequestsResponse struct {
	Success  bool                   `json:"success"`
	Incoming []IncomingRequest      `json:"incoming"`
	Outgoing []models.FriendRequest `json:"outgoing"`
}

// GetFriendRequests returns the caller's pending incoming requests and
// everything they sent.
func GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	incoming, outgoing := appStore.Requests(user.ID)
	in := []IncomingRequest{}
	for _, req := range incoming {
		ir := IncomingRequest{FromUserID: req.FromUserID}
		if sender, ok := appStore.User(req.FromUserID); ok {
			ir.FromName = sender.Name
			ir.FromAvatar = sender.Avatar
		}
		in = append(in, ir)
	}
	if outgoing == nil {
		outgoing = []models.FriendRequest{}
	}

	writeJSON(w, http.StatusOK, RequestsResponse{Success: true, Incoming: in, Outgoing: outgoing})
}

type SendFriendRequestRequest struct {
	ToUserID string `json:"toUserId"`
}

type FriendRequestResponse struct {
	Success bool                 `json:"success"`
	Request models.FriendRequest `json:"request"`
}

// SendFriendRequest opens a pending request from the caller. Conflicts
// (an open request already relating the pair, in either direction) get
// 409 rather than silently vanishing.
func SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req SendFriendRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fr, ok := appStore.SendFriendRequest(user.ID, req.ToUserID)
	if !ok {
		writeError(w, http.StatusConflict, "A request already exists for this pair")
		return
	}
	writeJSON(w, http.StatusCreated, FriendRequestResponse{Success: true, Request: fr})
}

type RespondFriendRequestRequest struct {
	FromUserID string `json:"fromUserId"`
	Response   string `json:"response"` // "accept" or "decline"
}

// RespondToFriendRequest resolves a pending incoming request.
func RespondToFriendRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req RespondFriendRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Response != "accept" && req.Response != "decline" {
		writeError(w, http.StatusBadRequest, `Response must be "accept" or "decline"`)
		return
	}

	fr, ok := appStore.RespondToFriendRequest(user.ID, req.FromUserID, req.Response == "accept")
	if !ok {
		writeError(w, http.StatusNotFound, "No pending request from this user")
		return
	}
	writeJSON(w, http.StatusOK, FriendRequestResponse{Success: true, Request: fr})
}
