package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/internal/services"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatClientMessage is what the frontend sends over the socket.
type ChatClientMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text,omitempty"`
	Tone string `json:"tone,omitempty"`
}

// ChatServerMessage is what the server sends back.
type ChatServerMessage struct {
	Type         string          `json:"type"` // "reply", "title", "error", "pong"
	Text         string          `json:"text,omitempty"`
	Conversation int             `json:"conversation,omitempty"`
	Message      *models.Message `json:"message,omitempty"`
}

// ChatWebSocket streams the companion chat over a WebSocket connection.
// Authentication uses the session token, via Authorization header or the
// `token` query parameter for browser clients. Messages go to the session's
// active conversation, starting one if none is selected.
func ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	_, st, ok := Sessions.Resolve(token)
	if !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

		var msg ChatClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			handleSocketMessage(r.Context(), conn, st, msg)
		case "ping":
			_ = conn.WriteJSON(ChatServerMessage{Type: "pong"})
		}
	}
}

func handleSocketMessage(ctx context.Context, conn *websocket.Conn, st *services.State, msg ChatClientMessage) {
	if strings.TrimSpace(msg.Text) == "" {
		_ = conn.WriteJSON(ChatServerMessage{Type: "error", Text: "Message is required"})
		return
	}

	idx := st.ActiveConversation()
	if idx == models.NoActiveConversation {
		idx = Conversations.Create(st)
	}

	doc := Conversations.Document(st)
	if idx < 0 || idx >= len(doc.Conversations) {
		_ = conn.WriteJSON(ChatServerMessage{Type: "error", Text: services.ErrConversationNotFound.Error()})
		return
	}
	firstExchange := len(doc.Conversations[idx].Messages) == 0

	if err := Conversations.AppendMessage(st, idx, models.RoleUser, msg.Text); err != nil {
		_ = conn.WriteJSON(ChatServerMessage{Type: "error", Text: err.Error()})
		return
	}

	reply, err := Assistant.Send(ctx, services.TonePrompt(msg.Tone), doc.Conversations[idx].Messages)
	if err != nil {
		reply = "I'm having trouble responding right now. Please try again in a moment."
	}
	Conversations.AppendMessage(st, idx, models.RoleAssistant, reply)

	if firstExchange {
		if title, err := Assistant.GenerateTitle(ctx, msg.Text); err == nil && title != "" {
			Conversations.SetTitle(st, idx, title)
			_ = conn.WriteJSON(ChatServerMessage{Type: "title", Text: title, Conversation: idx})
		}
	}
	Conversations.Save(st)

	messages := doc.Conversations[idx].Messages
	_ = conn.WriteJSON(ChatServerMessage{
		Type:         "reply",
		Text:         reply,
		Conversation: idx,
		Message:      &messages[len(messages)-1],
	})
}
