package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nafsiapp/nafsi-backend/internal/models"
	"github.com/nafsiapp/nafsi-backend/internal/store"
)

// setupTestEnv wires a fresh seeded store and a stubbed session layer
// so handler tests run without Redis. Tokens map directly to user ids
// as "tok:<user-id>".
func setupTestEnv(t *testing.T) {
	t.Helper()

	Init(store.New(), nil)

	origValidate := validateSession
	origCreate := createSession
	validateSession = func(token string) (string, bool, error) {
		if len(token) > 4 && token[:4] == "tok:" {
			return token[4:], true, nil
		}
		return "", false, nil
	}
	createSession = func(userID string) (string, error) {
		return "tok:" + userID, nil
	}
	t.Cleanup(func() {
		validateSession = origValidate
		createSession = origCreate
	})
}

func authedRequest(method, target string, body interface{}, userID string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer tok:"+userID)
	}
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestFeedRequiresSession(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	GetFeed(rec, httptest.NewRequest("GET", "/api/feed", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestGetFeedEnrichesAuthors(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	GetFeed(rec, authedRequest("GET", "/api/feed", nil, "user-amine"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp FeedResponse
	decodeResponse(t, rec, &resp)
	if len(resp.Posts) == 0 {
		t.Fatal("expected seeded posts in the feed")
	}
	for _, p := range resp.Posts {
		if p.AuthorName == "" {
			t.Errorf("post %s has no author name", p.ID)
		}
	}
	for i := 1; i < len(resp.Posts); i++ {
		if resp.Posts[i].Timestamp.After(resp.Posts[i-1].Timestamp) {
			t.Error("feed is not newest-first")
			break
		}
	}
}

func TestCreatePostAppearsFirst(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	CreatePost(rec, authedRequest("POST", "/api/posts", CreatePostRequest{Text: "hello from the test"}, "user-amine"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	GetFeed(rec, authedRequest("GET", "/api/feed", nil, "user-amine"))
	var feed FeedResponse
	decodeResponse(t, rec, &feed)
	if feed.Posts[0].Text != "hello from the test" {
		t.Errorf("new post should lead the feed, got %q", feed.Posts[0].Text)
	}
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	CreatePost(rec, authedRequest("POST", "/api/posts", CreatePostRequest{Text: "   "}, "user-amine"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank post, got %d", rec.Code)
	}
}

func TestToggleLike(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	GetFeed(rec, authedRequest("GET", "/api/feed", nil, "user-amine"))
	var feed FeedResponse
	decodeResponse(t, rec, &feed)

	var target FeedPost
	for _, p := range feed.Posts {
		if !p.Liked {
			target = p
			break
		}
	}
	if target.ID == "" {
		t.Fatal("expected an unliked post in the seeded feed")
	}

	rec = httptest.NewRecorder()
	ToggleLikePost(rec, authedRequest("POST", "/api/posts/like", ToggleLikeRequest{PostID: target.ID}, "user-amine"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var liked PostResponse
	decodeResponse(t, rec, &liked)
	if !liked.Post.LikedBy("user-amine") {
		t.Error("like was not recorded")
	}

	rec = httptest.NewRecorder()
	ToggleLikePost(rec, authedRequest("POST", "/api/posts/like", ToggleLikeRequest{PostID: target.ID}, "user-amine"))
	var unliked PostResponse
	decodeResponse(t, rec, &unliked)
	if unliked.Post.LikedBy("user-amine") {
		t.Error("second toggle should remove the like")
	}

	rec = httptest.NewRecorder()
	ToggleLikePost(rec, authedRequest("POST", "/api/posts/like", ToggleLikeRequest{PostID: "no-such-post"}, "user-amine"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown post, got %d", rec.Code)
	}
}

func TestFriendRequestFlow(t *testing.T) {
	setupTestEnv(t)

	// amine -> mehdi (not yet friends in the seed data)
	rec := httptest.NewRecorder()
	SendFriendRequest(rec, authedRequest("POST", "/api/friends/request", SendFriendRequestRequest{ToUserID: "user-mehdi"}, "user-amine"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// Duplicate, and the reverse direction, both conflict.
	rec = httptest.NewRecorder()
	SendFriendRequest(rec, authedRequest("POST", "/api/friends/request", SendFriendRequestRequest{ToUserID: "user-mehdi"}, "user-amine"))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate request, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	SendFriendRequest(rec, authedRequest("POST", "/api/friends/request", SendFriendRequestRequest{ToUserID: "user-amine"}, "user-mehdi"))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for reverse request, got %d", rec.Code)
	}

	// Recipient sees it as incoming.
	rec = httptest.NewRecorder()
	GetFriendRequests(rec, authedRequest("GET", "/api/friends/requests", nil, "user-mehdi"))
	var reqs RequestsResponse
	decodeResponse(t, rec, &reqs)
	if len(reqs.Incoming) != 1 || reqs.Incoming[0].FromUserID != "user-amine" {
		t.Fatalf("expected one incoming request from user-amine, got %+v", reqs.Incoming)
	}
	if reqs.Incoming[0].FromName == "" {
		t.Error("incoming request missing sender name")
	}

	// Accept links both sides.
	rec = httptest.NewRecorder()
	RespondToFriendRequest(rec, authedRequest("POST", "/api/friends/respond", RespondFriendRequestRequest{FromUserID: "user-amine", Response: "accept"}, "user-mehdi"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	GetFriends(rec, authedRequest("GET", "/api/friends", nil, "user-amine"))
	var friends FriendsResponse
	decodeResponse(t, rec, &friends)
	found := false
	for _, f := range friends.Friends {
		if f.ID == "user-mehdi" {
			found = true
		}
	}
	if !found {
		t.Error("accepted friend missing from sender's friend list")
	}
}

func TestRespondToFriendRequestValidation(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	RespondToFriendRequest(rec, authedRequest("POST", "/api/friends/respond", RespondFriendRequestRequest{FromUserID: "user-amine", Response: "maybe"}, "user-mehdi"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid response value, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	RespondToFriendRequest(rec, authedRequest("POST", "/api/friends/respond", RespondFriendRequestRequest{FromUserID: "user-amine", Response: "accept"}, "user-mehdi"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when no pending request exists, got %d", rec.Code)
	}
}

func TestGetPeopleRelations(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	SendFriendRequest(rec, authedRequest("POST", "/api/friends/request", SendFriendRequestRequest{ToUserID: "user-mehdi"}, "user-amine"))

	rec = httptest.NewRecorder()
	GetPeople(rec, authedRequest("GET", "/api/users", nil, "user-amine"))
	var resp PeopleResponse
	decodeResponse(t, rec, &resp)

	relations := map[string]string{}
	for _, p := range resp.People {
		if p.ID == "user-amine" {
			t.Error("people list should not include the caller")
		}
		relations[p.ID] = p.Relation
	}
	if relations["user-khadija"] != "friends" {
		t.Errorf("khadija relation = %q, want friends", relations["user-khadija"])
	}
	if relations["user-mehdi"] != "pending_outgoing" {
		t.Errorf("mehdi relation = %q, want pending_outgoing", relations["user-mehdi"])
	}

	rec = httptest.NewRecorder()
	GetPeople(rec, authedRequest("GET", "/api/users", nil, "user-mehdi"))
	var mehdiView PeopleResponse
	decodeResponse(t, rec, &mehdiView)
	for _, p := range mehdiView.People {
		if p.ID == "user-amine" && p.Relation != "pending_incoming" {
			t.Errorf("amine relation = %q, want pending_incoming", p.Relation)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	UpdateProfile(rec, authedRequest("PUT", "/api/profile", UpdateProfileRequest{Name: "  "}, "user-amine"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	UpdateProfile(rec, authedRequest("PUT", "/api/profile", UpdateProfileRequest{Name: "Amine B.", Bio: "still here"}, "user-amine"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp UserResponse
	decodeResponse(t, rec, &resp)
	if resp.User.Name != "Amine B." || resp.User.Bio != "still here" {
		t.Errorf("profile not updated: %+v", resp.User)
	}

	// GetMe reflects the change.
	rec = httptest.NewRecorder()
	GetMe(rec, authedRequest("GET", "/api/auth/me", nil, "user-amine"))
	var me UserResponse
	decodeResponse(t, rec, &me)
	if me.User.Name != "Amine B." {
		t.Errorf("GetMe name = %q, want updated name", me.User.Name)
	}
}

func TestGetRoomsLocalizationAndVisibility(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	GetRooms(rec, authedRequest("GET", "/api/rooms?lang=ar", nil, "user-amine"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp RoomsResponse
	decodeResponse(t, rec, &resp)
	if len(resp.Rooms) != 4 {
		t.Fatalf("expected the 4 official rooms, got %d", len(resp.Rooms))
	}
	for _, room := range resp.Rooms {
		if room.Name == "" {
			t.Errorf("room %s missing localized name", room.ID)
		}
	}

	// A private room created by mehdi without amine stays invisible.
	rec = httptest.NewRecorder()
	CreateRoom(rec, authedRequest("POST", "/api/rooms", CreateRoomRequest{Name: "Night owls", MemberIDs: []string{"user-khadija"}}, "user-mehdi"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	GetRooms(rec, authedRequest("GET", "/api/rooms", nil, "user-amine"))
	var amineRooms RoomsResponse
	decodeResponse(t, rec, &amineRooms)
	if len(amineRooms.Rooms) != 4 {
		t.Errorf("private room leaked to a non-member: %d rooms", len(amineRooms.Rooms))
	}

	rec = httptest.NewRecorder()
	GetRooms(rec, authedRequest("GET", "/api/rooms", nil, "user-khadija"))
	var khadijaRooms RoomsResponse
	decodeResponse(t, rec, &khadijaRooms)
	if len(khadijaRooms.Rooms) != 5 {
		t.Errorf("member should see the private room: %d rooms", len(khadijaRooms.Rooms))
	}
}

func TestGetRoomsMarksRecommendations(t *testing.T) {
	setupTestEnv(t)

	user := appStore.CompleteAssessment(models.AssessmentResult{
		PrimaryConcern:     "anxiety",
		Summary:            "sample",
		RecommendedRoomIDs: []string{"anxiety", "general"},
	})

	rec := httptest.NewRecorder()
	GetRooms(rec, authedRequest("GET", "/api/rooms", nil, user.ID))
	var resp RoomsResponse
	decodeResponse(t, rec, &resp)

	marked := map[string]bool{}
	for _, room := range resp.Rooms {
		marked[room.ID] = room.Recommended
	}
	if !marked["anxiety"] || !marked["general"] {
		t.Error("recommended rooms not marked")
	}
	if marked["depression"] || marked["trauma"] {
		t.Error("unrecommended rooms were marked")
	}
}

func TestGetTherapists(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	GetTherapists(rec, authedRequest("GET", "/api/therapists?lang=fr", nil, "user-amine"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var all TherapistsResponse
	decodeResponse(t, rec, &all)
	if len(all.Therapists) != 6 {
		t.Errorf("expected 6 therapists, got %d", len(all.Therapists))
	}
	for _, th := range all.Therapists {
		if th.Specialty == "" {
			t.Errorf("therapist %s missing localized specialty", th.ID)
		}
	}

	rec = httptest.NewRecorder()
	GetTherapists(rec, authedRequest("GET", "/api/therapists?city=casa", nil, "user-amine"))
	var filtered TherapistsResponse
	decodeResponse(t, rec, &filtered)
	if len(filtered.Therapists) != 2 {
		t.Errorf("expected 2 therapists in casa, got %d", len(filtered.Therapists))
	}
}

func TestAssessmentUnavailableWithoutGemini(t *testing.T) {
	setupTestEnv(t) // Init with nil gemini

	rec := httptest.NewRecorder()
	GetAssessmentQuestions(rec, httptest.NewRequest("GET", "/api/assessment/questions?lang=ar", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without the generative service, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	CompleteAssessment(rec, authedRequest("POST", "/api/assessment/complete", CompleteAssessmentRequest{Answers: map[int]string{0: "a"}}, ""))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without the generative service, got %d", rec.Code)
	}
}

func TestChatHistoryAccessChecks(t *testing.T) {
	setupTestEnv(t)

	rec := httptest.NewRecorder()
	LoadChatHistory(rec, authedRequest("GET", "/api/chat/history?room_id=no-such-room", nil, "user-amine"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown room, got %d", rec.Code)
	}

	// Private room amine does not belong to.
	CreateRoom(httptest.NewRecorder(), authedRequest("POST", "/api/rooms", CreateRoomRequest{Name: "Closed circle"}, "user-mehdi"))
	rec = httptest.NewRecorder()
	GetRooms(rec, authedRequest("GET", "/api/rooms", nil, "user-mehdi"))
	var rooms RoomsResponse
	decodeResponse(t, rec, &rooms)
	var privateID string
	for _, room := range rooms.Rooms {
		if room.IsPrivate {
			privateID = room.ID
		}
	}
	if privateID == "" {
		t.Fatal("expected a private room")
	}

	rec = httptest.NewRecorder()
	LoadChatHistory(rec, authedRequest("GET", "/api/chat/history?room_id="+privateID, nil, "user-amine"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-member, got %d", rec.Code)
	}
}
