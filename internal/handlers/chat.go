package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

type SendMessageRequest struct {
	Message string `json:"message"`
	Tone    string `json:"tone,omitempty"`
	// Conversation index; omitted or -1 targets the active conversation.
	Conversation *int `json:"conversation,omitempty"`
}

type SetActiveConversationRequest struct {
	Index int `json:"index"`
}

type RenameConversationRequest struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// ListConversations returns the session's conversation collection plus the
// active selection.
func ListConversations(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	doc := Conversations.Document(st)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"conversations": doc.Conversations,
		"active":        st.ActiveConversation(),
	})
}

// CreateConversation starts a new empty conversation and makes it active.
func CreateConversation(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	idx := Conversations.Create(st)
	doc := Conversations.Document(st)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"index":        idx,
		"conversation": doc.Conversations[idx],
	})
}

// DeleteConversation removes a conversation by index.
func DeleteConversation(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	idx, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid conversation index")
		return
	}

	if err := Conversations.Delete(st, idx); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrConversationNotFound) {
			status = http.StatusNotFound
		}
		writeMessage(w, status, false, err.Error())
		return
	}
	writeMessage(w, http.StatusOK, true, "Conversation deleted")
}

// SetActiveConversation selects which conversation receives messages.
func SetActiveConversation(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SetActiveConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc := Conversations.Document(st)
	if req.Index != models.NoActiveConversation && (req.Index < 0 || req.Index >= len(doc.Conversations)) {
		writeMessage(w, http.StatusNotFound, false, services.ErrConversationNotFound.Error())
		return
	}

	st.SetActiveConversation(req.Index)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"active":  req.Index,
	})
}

// RenameConversation sets a conversation title manually.
func RenameConversation(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req RenameConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeMessage(w, http.StatusBadRequest, false, "Title is required")
		return
	}

	if err := Conversations.SetTitle(st, req.Index, req.Title); err != nil {
		writeMessage(w, http.StatusNotFound, false, err.Error())
		return
	}
	Conversations.Save(st)
	writeMessage(w, http.StatusOK, true, "Conversation renamed")
}

// GetTones returns the companion tone catalog.
func GetTones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tones":   services.ToneOptions,
		"default": services.DefaultTone,
	})
}

// SendMessage appends the user's message, asks the assistant for a reply,
// and persists the exchange. The first exchange in a conversation also
// triggers title generation.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	_, st, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeMessage(w, http.StatusBadRequest, false, "Message is required")
		return
	}

	idx := st.ActiveConversation()
	if req.Conversation != nil {
		idx = *req.Conversation
	}
	// No conversation selected: start one implicitly.
	if idx == models.NoActiveConversation {
		idx = Conversations.Create(st)
	}

	doc := Conversations.Document(st)
	if idx < 0 || idx >= len(doc.Conversations) {
		writeMessage(w, http.StatusNotFound, false, services.ErrConversationNotFound.Error())
		return
	}
	firstExchange := len(doc.Conversations[idx].Messages) == 0

	if err := Conversations.AppendMessage(st, idx, models.RoleUser, req.Message); err != nil {
		writeMessage(w, http.StatusNotFound, false, err.Error())
		return
	}

	reply, err := Assistant.Send(r.Context(), services.TonePrompt(req.Tone), doc.Conversations[idx].Messages)
	if err != nil {
		log.Printf("⚠️  Assistant error: %v", err)
		reply = "I'm having trouble responding right now. Please try again in a moment."
	}
	if err := Conversations.AppendMessage(st, idx, models.RoleAssistant, reply); err != nil {
		writeMessage(w, http.StatusInternalServerError, false, err.Error())
		return
	}

	if firstExchange {
		if title, err := Assistant.GenerateTitle(r.Context(), req.Message); err == nil && title != "" {
			Conversations.SetTitle(st, idx, title)
		}
	}
	Conversations.Save(st)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"index":        idx,
		"conversation": doc.Conversations[idx],
		"reply":        reply,
	})
}
