package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/talkheal/talkheal-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/logout", handlers.Logout)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// OAuth routes
	r.Get("/api/auth/oauth/providers", handlers.GetOAuthProviders)
	r.Get("/api/auth/oauth/begin", handlers.BeginOAuth)
	r.Get("/api/auth/oauth/callback", handlers.OAuthCallback)

	// Profile routes
	r.Put("/api/profile", handlers.UpdateProfile)
	r.Post("/api/profile/picture", handlers.UploadProfilePicture)

	// Companion chat routes
	r.Get("/api/chat/tones", handlers.GetTones)
	r.Get("/api/chat/conversations", handlers.ListConversations)
	r.Post("/api/chat/conversations", handlers.CreateConversation)
	r.Delete("/api/chat/conversations", handlers.DeleteConversation)
	r.Post("/api/chat/conversations/active", handlers.SetActiveConversation)
	r.Post("/api/chat/conversations/rename", handlers.RenameConversation)
	r.Post("/api/chat/message", handlers.SendMessage)

	// WebSocket endpoint for streaming chat
	r.Get("/ws/chat", handlers.ChatWebSocket)

	// Mood tracking routes
	r.Post("/api/mood", handlers.AddMoodEntry)
	r.Get("/api/mood", handlers.GetMoodHistory)
	r.Get("/api/mood/statistics", handlers.GetMoodStatistics)

	// Self-help tool routes
	r.Get("/api/tools", handlers.ListTools)
	r.Post("/api/tools/home", handlers.GoHome)
	r.Post("/api/tools/{name}/open", handlers.OpenTool)
	r.Get("/api/tools/{name}", handlers.RenderTool)
	r.Post("/api/tools/{name}/action", handlers.ToolAction)
}
