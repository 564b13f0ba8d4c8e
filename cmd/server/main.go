package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/talkheal/talkheal-backend/internal/config"
	"github.com/talkheal/talkheal-backend/internal/database"
	"github.com/talkheal/talkheal-backend/internal/handlers"
	"github.com/talkheal/talkheal-backend/internal/middleware"
	"github.com/talkheal/talkheal-backend/internal/routes"
	"github.com/talkheal/talkheal-backend/internal/services"
)

const sampleEnv = `# TalkHeal backend configuration
GEMINI_API_KEY=your_gemini_api_key_here
JWT_SECRET=change-me
# DATABASE_URL=talkheal.db
# REDIS_URI=redis://localhost:6379
# FRONTEND_URL=http://localhost:3000
`

func main() {
	// Load env; scaffold a sample .env on first run so setup is obvious.
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			if werr := os.WriteFile(".env", []byte(sampleEnv), 0o600); werr == nil {
				log.Println("📝 Created sample .env file. Fill in your API keys and restart.")
			}
		} else {
			log.Println("No .env file found")
		}
	}
	cfg := config.Load()

	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. Chat will use canned supportive responses.")
	}

	// Connect to the credential store
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Disconnect()

	// Session token store: Redis when configured, in-process otherwise
	var tokenStore services.TokenStore = services.NewMemoryTokenStore()
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: Redis unavailable (%v). Falling back to in-memory sessions.", err)
		} else {
			defer database.DisconnectRedis()
			tokenStore = services.NewRedisTokenStore()
		}
	}
	sessions := services.NewSessionManager(tokenStore)

	// Document store for self-help tool data
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	docs := services.NewDocumentStore(cfg.DataDir)

	// Chat assistant: Gemini when a key is present, static fallback otherwise
	var assistant services.Responder = services.StaticResponder{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiResponder(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("⚠️  WARNING: Gemini init failed (%v). Falling back to canned responses.", err)
		} else {
			defer gemini.Close()
			assistant = gemini
			log.Println("✅ Gemini assistant initialized")
		}
	}

	oauth := services.NewOAuthService(cfg.OAuthProviders)
	if providers := oauth.AvailableProviders(); len(providers) > 0 {
		log.Printf("✅ OAuth providers configured: %v", providers)
	} else {
		log.Println("OAuth providers not configured. Social sign-in disabled.")
	}

	// Cloudinary for profile pictures (optional)
	var cloud *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		c, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			cloud = c
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Profile picture uploads disabled.")
	}

	handlers.Init(cfg, sessions, docs, assistant, oauth, cloud)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		log.Println("✅ Production security headers enabled")
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  GET  /api/auth/oauth/providers")
	log.Println("  POST /api/chat/message")
	log.Println("  GET  /ws/chat")
	log.Println("  POST /api/mood")
	log.Println("  GET  /api/tools")

	log.Printf("🚀 TalkHeal backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
