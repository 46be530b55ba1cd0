package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nafsiapp/nafsi-backend/internal/models"
	"github.com/nafsiapp/nafsi-backend/internal/services"
	"github.com/nafsiapp/nafsi-backend/internal/store"
)

var (
	appStore *store.Store
	gemini   *services.GeminiService
)

// Init wires the state container and the Gemini service into the
// handler package. gemini may be nil; the assessment and companion
// endpoints then answer 503.
func Init(s *store.Store, g *services.GeminiService) {
	appStore = s
	gemini = g
}

// Session resolution functions, package-level so tests can stub them.
var (
	validateSession = services.ValidateSession
	createSession   = services.CreateSession
)

// currentUser resolves the acting user from the session token.
func currentUser(r *http.Request) (models.User, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		// Browser WebSocket clients can't set headers.
		token = r.URL.Query().Get("token")
	}
	userID, ok, err := validateSession(token)
	if err != nil || !ok {
		return models.User{}, false
	}
	return appStore.User(userID)
}

func extractBearerToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func langFrom(r *http.Request) models.Language {
	return models.ParseLanguage(r.URL.Query().Get("lang"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "A valid session is required")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
