package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/talkheal/talkheal-backend/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore manages the per-session conversation collection. The
// collection is loaded from its JSON document into session state on first
// touch, mutated in memory, and written back wholesale on save.
type ConversationStore struct {
	docs *DocumentStore
}

func NewConversationStore(docs *DocumentStore) *ConversationStore {
	return &ConversationStore{docs: docs}
}

// Document returns the session's conversation list, loading it from disk on
// first access.
func (c *ConversationStore) Document(st *State) *models.ConversationDocument {
	v, ok := st.Get(stateKeyConversations)
	if ok {
		if doc, ok := v.(*models.ConversationDocument); ok {
			return doc
		}
	}

	doc := &models.ConversationDocument{Conversations: []models.Conversation{}}
	c.docs.Load(DocConversations, doc)
	if doc.Conversations == nil {
		doc.Conversations = []models.Conversation{}
	}
	st.Set(stateKeyConversations, doc)
	return doc
}

// Create appends a new empty conversation, marks it active, and persists.
// Returns the new conversation's index.
func (c *ConversationStore) Create(st *State) int {
	doc := c.Document(st)
	now := time.Now()

	conv := models.Conversation{
		ID:        uuid.NewString(),
		Title:     "New Conversation - " + now.Format("Jan 2, 3:04 PM"),
		CreatedAt: now,
		Messages:  []models.Message{},
	}
	doc.Conversations = append(doc.Conversations, conv)

	idx := len(doc.Conversations) - 1
	st.SetActiveConversation(idx)
	c.Save(st)
	return idx
}

// AppendMessage adds a message stamped with the current time. The caller is
// responsible for persisting afterward.
func (c *ConversationStore) AppendMessage(st *State, idx int, role, text string) error {
	doc := c.Document(st)
	if idx < 0 || idx >= len(doc.Conversations) {
		return ErrConversationNotFound
	}
	doc.Conversations[idx].Messages = append(doc.Conversations[idx].Messages, models.Message{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
	return nil
}

// SetTitle renames a conversation (used by the assistant's title generation
// after the first exchange).
func (c *ConversationStore) SetTitle(st *State, idx int, title string) error {
	doc := c.Document(st)
	if idx < 0 || idx >= len(doc.Conversations) {
		return ErrConversationNotFound
	}
	doc.Conversations[idx].Title = title
	return nil
}

// Delete removes a conversation. If the deleted conversation was active, the
// active selection resets to none.
func (c *ConversationStore) Delete(st *State, idx int) error {
	doc := c.Document(st)
	if idx < 0 || idx >= len(doc.Conversations) {
		return ErrConversationNotFound
	}
	doc.Conversations = append(doc.Conversations[:idx], doc.Conversations[idx+1:]...)

	active := st.ActiveConversation()
	switch {
	case active == idx:
		st.SetActiveConversation(models.NoActiveConversation)
	case active > idx:
		st.SetActiveConversation(active - 1)
	}
	return c.saveOrError(st)
}

// Save persists the session's conversation list.
func (c *ConversationStore) Save(st *State) bool {
	return c.docs.Save(DocConversations, c.Document(st))
}

func (c *ConversationStore) saveOrError(st *State) error {
	if !c.Save(st) {
		return errors.New("could not save conversations")
	}
	return nil
}
