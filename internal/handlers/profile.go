package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/talkheal/talkheal-backend/internal/services"
)

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

const maxAvatarSize = 5 << 20 // 5 MB

// UpdateProfile changes the display name.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, _, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeMessage(w, http.StatusBadRequest, false, "Name is required")
		return
	}

	okUpdate, message := services.UpdateProfile(email, strings.TrimSpace(req.Name), "")
	if !okUpdate {
		writeMessage(w, http.StatusInternalServerError, false, message)
		return
	}

	user, _ := services.GetUserByEmail(email)
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: message, User: user})
}

// UploadProfilePicture accepts a multipart image, uploads it to Cloudinary,
// and stores the resulting URL on the user record.
func UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	email, _, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	if Cloudinary == nil {
		writeMessage(w, http.StatusServiceUnavailable, false, "Image uploads are not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid upload")
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Missing file")
		return
	}
	if header.Size > maxAvatarSize {
		writeMessage(w, http.StatusRequestEntityTooLarge, false, "File too large")
		return
	}

	url, err := Cloudinary.UploadFromHeader(r.Context(), header)
	if err != nil {
		writeMessage(w, http.StatusBadGateway, false, "Upload failed")
		return
	}

	okUpdate, message := services.UpdateProfile(email, "", url)
	if !okUpdate {
		writeMessage(w, http.StatusInternalServerError, false, message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         message,
		"profile_picture": url,
	})
}
