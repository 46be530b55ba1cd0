package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

// Store is the single source of truth for all mutable domain state:
// users, chat rooms and friend requests. All state lives in memory for
// the lifetime of the process.
//
// Mutations never panic and never leave the store partially updated;
// invalid calls (unknown user, empty text, duplicate request) return
// ok=false without touching state. Reads return copies, so callers can
// never corrupt the store through a returned value. The "current user"
// view is always a projection of the canonical users map — there is no
// mirrored copy to drift out of sync.
type Store struct {
	mu sync.RWMutex

	users      map[string]*models.User
	userOrder  []string // insertion order for stable listings
	rooms      []models.ChatRoom
	requests   []models.FriendRequest
	therapists []models.Therapist
}

// New returns a store seeded with the official rooms, the therapist
// directory and the fixture community users.
func New() *Store {
	s := &Store{users: make(map[string]*models.User)}
	s.seed()
	return s
}

// NewEmpty returns a store with no users, rooms or therapists.
func NewEmpty() *Store {
	return &Store{users: make(map[string]*models.User)}
}

// CompleteAssessment creates a new user carrying the given result and
// inserts it into the community. The caller receives the created user;
// session creation is the handler's concern.
func (s *Store) CompleteAssessment(result models.AssessmentResult) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &models.User{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Name:             "New User",
		AssessmentResult: &result,
		Posts:            []models.Post{},
		Friends:          []string{},
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return *u
}

// AddPost prepends a new post to the author's post list (newest-first).
// Empty text (after trimming) or an unknown author is rejected.
func (s *Store) AddPost(userID, text, imageURL string) (models.Post, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Post{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.Post{}, false
	}

	p := models.Post{
		ID:        uuid.NewString(),
		AuthorID:  userID,
		Text:      text,
		ImageURL:  imageURL,
		Timestamp: time.Now().UTC(),
		Likes:     []string{},
	}
	u.Posts = append([]models.Post{p}, u.Posts...)
	return clonePost(p), true
}

// UpdateProfile replaces the user's name and bio.
func (s *Store) UpdateProfile(userID, name, bio string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.User{}, false
	}
	u.Name = name
	u.Bio = bio
	return cloneUser(u), true
}

// UpdateAvatar replaces the user's avatar URL.
func (s *Store) UpdateAvatar(userID, avatarURL string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.User{}, false
	}
	u.Avatar = avatarURL
	return cloneUser(u), true
}

// ToggleLikePost flips the user's membership in the post's like set.
// Posts are addressable globally by id even though they are stored per
// author, so every user's posts are scanned.
func (s *Store) ToggleLikePost(userID, postID string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return models.Post{}, false
	}

	for _, author := range s.users {
		for i := range author.Posts {
			p := &author.Posts[i]
			if p.ID != postID {
				continue
			}
			if p.LikedBy(userID) {
				likes := p.Likes[:0]
				for _, id := range p.Likes {
					if id != userID {
						likes = append(likes, id)
					}
				}
				p.Likes = likes
			} else {
				p.Likes = append(p.Likes, userID)
			}
			return clonePost(*p), true
		}
	}
	return models.Post{}, false
}

// CreateRoom creates a private room owned by the user. The creator is
// always a member; memberIDs are deduplicated and unknown ids dropped.
func (s *Store) CreateRoom(userID, name, description string, memberIDs []string) (models.ChatRoom, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ChatRoom{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return models.ChatRoom{}, false
	}

	members := []string{userID}
	seen := map[string]bool{userID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		if _, ok := s.users[id]; !ok {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	room := models.ChatRoom{
		ID:          uuid.NewString(),
		Name:        models.SameForAll(name),
		Description: models.SameForAll(strings.TrimSpace(description)),
		Icon:        "👥",
		IsPrivate:   true,
		OwnerID:     userID,
		Members:     members,
	}
	s.rooms = append(s.rooms, room)
	return cloneRoom(room), true
}

// SendFriendRequest records a pending request from one user to another.
// Rejected when either user is unknown, the users are the same, or an
// open (pending or accepted) request already relates the pair in either
// direction. A declined request does not block a new one.
func (s *Store) SendFriendRequest(fromID, toID string) (models.FriendRequest, bool) {
	if fromID == toID {
		return models.FriendRequest{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[fromID]; !ok {
		return models.FriendRequest{}, false
	}
	if _, ok := s.users[toID]; !ok {
		return models.FriendRequest{}, false
	}

	for i := range s.requests {
		if s.requests[i].Relates(fromID, toID) && s.requests[i].Open() {
			return models.FriendRequest{}, false
		}
	}

	req := models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.FriendRequestPending,
	}
	s.requests = append(s.requests, req)
	return req, true
}

// RespondToFriendRequest resolves the pending request from fromUserID
// to userID. Accepting links both friends lists; each list is kept a
// set, so a duplicate entry can never appear.
func (s *Store) RespondToFriendRequest(userID, fromUserID string, accept bool) (models.FriendRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.FriendRequest{}, false
	}
	from, ok := s.users[fromUserID]
	if !ok {
		return models.FriendRequest{}, false
	}

	for i := range s.requests {
		req := &s.requests[i]
		if req.FromUserID != fromUserID || req.ToUserID != userID || req.Status != models.FriendRequestPending {
			continue
		}
		if accept {
			req.Status = models.FriendRequestAccepted
			u.Friends = appendUnique(u.Friends, fromUserID)
			from.Friends = appendUnique(from.Friends, userID)
		} else {
			req.Status = models.FriendRequestDeclined
		}
		return *req, true
	}
	return models.FriendRequest{}, false
}

// User projects a single user out of the canonical collection.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return cloneUser(u), true
}

// Users returns every user in insertion order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, cloneUser(s.users[id]))
	}
	return out
}

// Feed aggregates every user's posts into a single newest-first list.
func (s *Store) Feed() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, id := range s.userOrder {
		for _, p := range s.users[id].Posts {
			out = append(out, clonePost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Rooms returns the rooms visible to the user: all official rooms plus
// private rooms the user owns or belongs to.
func (s *Store) Rooms(userID string) []models.ChatRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ChatRoom
	for i := range s.rooms {
		r := &s.rooms[i]
		if r.IsPrivate && !r.HasMember(userID) {
			continue
		}
		out = append(out, cloneRoom(*r))
	}
	return out
}

// Room looks a room up by id.
func (s *Store) Room(id string) (models.ChatRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.rooms {
		if s.rooms[i].ID == id {
			return cloneRoom(s.rooms[i]), true
		}
	}
	return models.ChatRoom{}, false
}

// Requests returns the friend requests involving the user, split into
// incoming pending requests and everything the user sent.
func (s *Store) Requests(userID string) (incoming, outgoing []models.FriendRequest) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, req := range s.requests {
		switch {
		case req.ToUserID == userID && req.Status == models.FriendRequestPending:
			incoming = append(incoming, req)
		case req.FromUserID == userID:
			outgoing = append(outgoing, req)
		}
	}
	return incoming, outgoing
}

// RequestBetween returns the most recent request relating the pair, in
// either direction.
func (s *Store) RequestBetween(a, b string) (models.FriendRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Relates(a, b) {
			return s.requests[i], true
		}
	}
	return models.FriendRequest{}, false
}

// Friends returns the user's friends as full user projections.
func (s *Store) Friends(userID string) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	out := make([]models.User, 0, len(u.Friends))
	for _, id := range u.Friends {
		if friend, ok := s.users[id]; ok {
			out = append(out, cloneUser(friend))
		}
	}
	return out
}

// Therapists returns directory entries, optionally filtered by a
// case-insensitive city substring.
func (s *Store) Therapists(city string) []models.Therapist {
	city = strings.ToLower(strings.TrimSpace(city))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Therapist, 0, len(s.therapists))
	for _, t := range s.therapists {
		if city != "" && !strings.Contains(strings.ToLower(t.City), city) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

func cloneUser(u *models.User) models.User {
	out := *u
	out.Posts = make([]models.Post, len(u.Posts))
	for i, p := range u.Posts {
		out.Posts[i] = clonePost(p)
	}
	out.Friends = append([]string(nil), u.Friends...)
	if u.AssessmentResult != nil {
		res := *u.AssessmentResult
		res.RecommendedRoomIDs = append([]string(nil), u.AssessmentResult.RecommendedRoomIDs...)
		out.AssessmentResult = &res
	}
	return out
}

func clonePost(p models.Post) models.Post {
	p.Likes = append([]string(nil), p.Likes...)
	return p
}

func cloneRoom(r models.ChatRoom) models.ChatRoom {
	r.Members = append([]string(nil), r.Members...)
	name := make(models.LocalizedText, len(r.Name))
	for k, v := range r.Name {
		name[k] = v
	}
	desc := make(models.LocalizedText, len(r.Description))
	for k, v := range r.Description {
		desc[k] = v
	}
	r.Name, r.Description = name, desc
	return r
}
