package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/nafsiapp/nafsi-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Onboarding assessment routes
	r.Get("/api/assessment/questions", handlers.GetAssessmentQuestions)
	r.Post("/api/assessment/complete", handlers.CompleteAssessment)

	// Session routes
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/signout", handlers.SignOut)

	// Profile routes
	r.Put("/api/profile", handlers.UpdateProfile)
	r.Put("/api/profile/avatar", handlers.UpdateAvatar)

	// Feed routes
	r.Get("/api/feed", handlers.GetFeed)
	r.Post("/api/posts", handlers.CreatePost)
	r.Post("/api/posts/like", handlers.ToggleLikePost)

	// Community routes
	r.Get("/api/users", handlers.GetPeople)
	r.Get("/api/friends", handlers.GetFriends)
	r.Get("/api/friends/requests", handlers.GetFriendRequests)
	r.Post("/api/friends/request", handlers.SendFriendRequest)
	r.Post("/api/friends/respond", handlers.RespondToFriendRequest)

	// Chat room routes
	r.Get("/api/rooms", handlers.GetRooms)
	r.Post("/api/rooms", handlers.CreateRoom)
	r.Get("/api/chat/history", handlers.LoadChatHistory)

	// Therapist directory routes
	r.Get("/api/therapists", handlers.GetTherapists)

	// File upload routes
	r.Post("/api/upload", handlers.UploadFile)

	// WebSocket routes
	r.Get("/ws/chat", handlers.ChatWebSocket)
	r.Get("/ws/companion", handlers.CompanionWebSocket)
}
