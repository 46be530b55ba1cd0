package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/nafsiapp/nafsi-backend/internal/config"
	"github.com/nafsiapp/nafsi-backend/internal/database"
	"github.com/nafsiapp/nafsi-backend/internal/handlers"
	"github.com/nafsiapp/nafsi-backend/internal/middleware"
	"github.com/nafsiapp/nafsi-backend/internal/routes"
	"github.com/nafsiapp/nafsi-backend/internal/services"
	"github.com/nafsiapp/nafsi-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to Redis (required: sessions, cache, rate limits, chat pub/sub)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (optional: chat history answers 503 without it)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Printf("⚠️  WARNING: MongoDB unavailable: %v", err)
		log.Println("   Chat history will not be available")
	} else {
		defer database.DisconnectMongo()
		if err := services.EnsureChatIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB chat indexes: %v", err)
		} else {
			log.Println("✅ MongoDB chat indexes ensured")
		}
	}

	// Initialize the Gemini service (optional: assessment and companion
	// endpoints answer 503 without it)
	var gemini *services.GeminiService
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. Assessment and companion chat will not be available")
	} else {
		g, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("⚠️  WARNING: Failed to initialize Gemini: %v", err)
		} else {
			gemini = g
			log.Println("✅ Gemini service initialized")
		}
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// In-memory community state, pre-seeded with the official rooms,
	// therapist directory and sample community
	handlers.Init(store.New(), gemini)

	// Fan chat events from Redis out to local WebSocket connections
	services.StartRedisChatSubscriber(context.Background())

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: host check, security headers and per-IP limiters.
	// Non-production: Redis-based rate limit only.
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (host check, security headers, per-IP rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /api/assessment/questions")
	log.Println("  POST /api/assessment/complete")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/signout")
	log.Println("  PUT  /api/profile")
	log.Println("  PUT  /api/profile/avatar")
	log.Println("  GET  /api/feed")
	log.Println("  POST /api/posts")
	log.Println("  POST /api/posts/like")
	log.Println("  GET  /api/users")
	log.Println("  GET  /api/friends")
	log.Println("  GET  /api/friends/requests")
	log.Println("  POST /api/friends/request")
	log.Println("  POST /api/friends/respond")
	log.Println("  GET  /api/rooms")
	log.Println("  POST /api/rooms")
	log.Println("  GET  /api/chat/history")
	log.Println("  GET  /api/therapists")
	log.Println("  POST /api/upload")
	log.Println("  GET  /ws/chat")
	log.Println("  GET  /ws/companion")

	log.Printf("🚀 Nafsi backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
