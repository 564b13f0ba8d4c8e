package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
	"github.com/talkheal/talkheal-backend/pkg/utils"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResponse is the envelope for auth endpoints. Token is only set on a
// successful sign-in.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// Signup handles email/password registration.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, false, "Name is required")
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		writeMessage(w, http.StatusBadRequest, false, err.Error())
		return
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, false, err.Error())
		return
	}

	ok, message := services.RegisterUser(req.Name, req.Email, req.Password, models.ProviderEmail, "", "", false)
	if !ok {
		status := http.StatusInternalServerError
		if message == "Email already registered" {
			status = http.StatusConflict
		}
		writeMessage(w, status, false, message)
		return
	}
	writeMessage(w, http.StatusCreated, true, message)
}

// Signin handles email/password login and opens a session.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ok, user := services.AuthenticateUser(req.Email, req.Password)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, false, "Invalid email or password")
		return
	}

	token, _, err := Sessions.Create(user.Email)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		Token:   token,
		User:    user,
	})
}

// Logout destroys the current session.
func Logout(w http.ResponseWriter, r *http.Request) {
	_, _, token, ok := requireSession(w, r)
	if !ok {
		return
	}
	Sessions.Destroy(token)
	writeMessage(w, http.StatusOK, true, "Signed out successfully")
}

// GetMe returns the authenticated user's record.
func GetMe(w http.ResponseWriter, r *http.Request) {
	email, _, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	user, err := services.GetUserByEmail(email)
	if err != nil || user == nil {
		writeMessage(w, http.StatusNotFound, false, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: user})
}

// ForgotPassword issues a password reset token. With no mail transport
// configured the token is returned in the response for the frontend to
// deliver.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := services.IssueResetToken(Cfg.JWTSecret, req.Email)
	if err != nil {
		if errors.Is(err, services.ErrResetUserNotFound) {
			writeMessage(w, http.StatusNotFound, false, err.Error())
			return
		}
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Password reset link generated",
		"reset_token": token,
	})
}

// ResetPassword completes a password reset. The token is single-use: the
// password update bumps the account stamp, which staleness-checks every
// token issued before it.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidatePasswordStrength(req.NewPassword); err != nil {
		writeMessage(w, http.StatusBadRequest, false, err.Error())
		return
	}

	email, err := services.VerifyResetToken(Cfg.JWTSecret, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResetTokenStale), errors.Is(err, services.ErrResetTokenInvalid), errors.Is(err, services.ErrResetUserNotFound):
			writeMessage(w, http.StatusUnauthorized, false, err.Error())
		default:
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	ok, message := services.ResetPassword(email, req.NewPassword)
	if !ok {
		writeMessage(w, http.StatusInternalServerError, false, message)
		return
	}

	// Old sessions should not survive a password reset.
	Sessions.DestroyUser(email)
	writeMessage(w, http.StatusOK, true, message)
}
