package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/talkheal/talkheal-backend/internal/config"
	"github.com/talkheal/talkheal-backend/internal/services"
	"github.com/talkheal/talkheal-backend/internal/tools"
)

// Shared service handles, set once at startup by Init.
var (
	Cfg           *config.Config
	Sessions      *services.SessionManager
	Docs          *services.DocumentStore
	Conversations *services.ConversationStore
	Moods         *services.MoodTracker
	Assistant     services.Responder
	OAuth         *services.OAuthService
	Tools         *tools.Registry
	Cloudinary    *services.CloudinaryService // nil when not configured
)

// Init wires the handler package's service handles.
func Init(cfg *config.Config, sessions *services.SessionManager, docs *services.DocumentStore, assistant services.Responder, oauth *services.OAuthService, cloud *services.CloudinaryService) {
	Cfg = cfg
	Sessions = sessions
	Docs = docs
	Conversations = services.NewConversationStore(docs)
	Moods = services.NewMoodTracker(docs)
	Assistant = assistant
	OAuth = oauth
	Tools = tools.NewRegistry(docs)
	Cloudinary = cloud
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": success,
		"message": message,
	})
}

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requireSession resolves the request's session. On failure it writes the
// 401 response and returns ok=false.
func requireSession(w http.ResponseWriter, r *http.Request) (email string, st *services.State, token string, ok bool) {
	token = extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, false, "Missing session token")
		return "", nil, "", false
	}

	email, st, valid := Sessions.Resolve(token)
	if !valid {
		writeMessage(w, http.StatusUnauthorized, false, "Invalid or expired session")
		return "", nil, "", false
	}
	return email, st, token, true
}
