package handlers

import (
	"net/http"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

// FeedPost is a post enriched with author details for the feed view.
type FeedPost struct {
	models.Post
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
	Liked        bool   `json:"liked"`
}

type FeedResponse struct {
	Success bool       `json:"success"`
	Posts   []FeedPost `json:"posts"`
}

// GetFeed returns every user's posts, newest first.
func GetFeed(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	posts := appStore.Feed()
	out := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		fp := FeedPost{Post: p, Liked: p.LikedBy(user.ID)}
		if author, ok := appStore.User(p.AuthorID); ok {
			fp.AuthorName = author.Name
			fp.AuthorAvatar = author.Avatar
		}
		out = append(out, fp)
	}

	writeJSON(w, http.StatusOK, FeedResponse{Success: true, Posts: out})
}

type CreatePostRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type PostResponse struct {
	Success bool        `json:"success"`
	Post    models.Post `json:"post"`
}

// CreatePost adds a post to the head of the caller's post list.
func CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, ok := appStore.AddPost(user.ID, req.Text, req.ImageURL)
	if !ok {
		writeError(w, http.StatusBadRequest, "Post text is required")
		return
	}

	writeJSON(w, http.StatusCreated, PostResponse{Success: true, Post: post})
}

type ToggleLikeRequest struct {
	PostID string `json:"postId"`
}

// ToggleLikePost flips the caller's like on a post anywhere in the feed.
func ToggleLikePost(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req ToggleLikeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, ok := appStore.ToggleLikePost(user.ID, req.PostID)
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	writeJSON(w, http.StatusOK, PostResponse{Success: true, Post: post})
}
