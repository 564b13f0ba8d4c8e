package handlers

import (
	"errors"
	"net/http"

	"github.com/talkheal/talkheal-backend/internal/services"
)

// GetOAuthProviders lists providers with configured credentials so the
// frontend only renders buttons that will work.
func GetOAuthProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"providers": OAuth.AvailableProviders(),
	})
}

// BeginOAuth issues a state and returns the provider's authorization URL
// for the frontend to redirect to.
func BeginOAuth(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	authURL, err := OAuth.AuthURL(provider)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"auth_url": authURL,
	})
}

// OAuthCallback completes the flow: the provider redirects here with code
// and state, and a successful exchange opens a session just like a password
// sign-in.
func OAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	provider := q.Get("provider")
	code := q.Get("code")
	state := q.Get("state")

	if code == "" || state == "" {
		writeMessage(w, http.StatusBadRequest, false, "Missing code or state")
		return
	}

	user, err := OAuth.HandleCallback(r.Context(), provider, code, state)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrInvalidOAuthState) || errors.Is(err, services.ErrProviderNotConfigured) {
			status = http.StatusBadRequest
		}
		writeMessage(w, status, false, err.Error())
		return
	}

	token, _, err := Sessions.Create(user.Email)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in with " + provider,
		Token:   token,
		User:    user,
	})
}
