package models

import "time"

// Message roles within a conversation. Append-only.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// ConversationDocument is the persisted shape of a user's conversation list.
type ConversationDocument struct {
	Conversations []Conversation `json:"conversations"`
	LastUpdated   string         `json:"last_updated,omitempty"`
}

func (d *ConversationDocument) TouchLastUpdated(ts string) { d.LastUpdated = ts }

// NoActiveConversation is the sentinel for "nothing selected".
const NoActiveConversation = -1
