package handlers

import (
	"net/http"
	"strings"

	"github.com/nafsiapp/nafsi-backend/internal/models"
	"github.com/nafsiapp/nafsi-backend/internal/services"
)

type UserResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
}

// GetMe returns the caller's profile, projected out of the all-users
// collection.
func GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// UpdateProfile replaces the caller's name and bio.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	updated, ok := appStore.UpdateProfile(user.ID, req.Name, strings.TrimSpace(req.Bio))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: updated})
}

type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatarUrl"`
}

// UpdateAvatar replaces the caller's avatar URL (typically a Cloudinary
// URL from /api/upload).
func UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req UpdateAvatarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.AvatarURL) == "" {
		writeError(w, http.StatusBadRequest, "Avatar URL is required")
		return
	}

	updated, ok := appStore.UpdateAvatar(user.ID, strings.TrimSpace(req.AvatarURL))
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: updated})
}

// SignOut invalidates the caller's session token.
func SignOut(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeUnauthorized(w)
		return
	}
	if err := services.InvalidateSession(token); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
