package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkheal/talkheal-backend/internal/models"
)

func TestCreateConversation(t *testing.T) {
	store := NewConversationStore(NewDocumentStore(t.TempDir()))
	st := NewState()

	idx := store.Create(st)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 0, st.ActiveConversation())

	doc := store.Document(st)
	require.Len(t, doc.Conversations, 1)
	assert.NotEmpty(t, doc.Conversations[0].ID)
	assert.True(t, strings.HasPrefix(doc.Conversations[0].Title, "New Conversation - "))
	assert.Empty(t, doc.Conversations[0].Messages)
}

func TestAppendMessageAndPersist(t *testing.T) {
	dir := t.TempDir()
	store := NewConversationStore(NewDocumentStore(dir))
	st := NewState()

	idx := store.Create(st)
	require.NoError(t, store.AppendMessage(st, idx, models.RoleUser, "Hello"))
	require.NoError(t, store.AppendMessage(st, idx, models.RoleAssistant, "Hi, how are you feeling today?"))
	require.True(t, store.Save(st))

	// A fresh session against the same directory sees the saved history.
	reloaded := NewConversationStore(NewDocumentStore(dir))
	st2 := NewState()
	doc := reloaded.Document(st2)
	require.Len(t, doc.Conversations, 1)
	require.Len(t, doc.Conversations[0].Messages, 2)
	assert.Equal(t, models.RoleUser, doc.Conversations[0].Messages[0].Role)
	assert.Equal(t, "Hello", doc.Conversations[0].Messages[0].Text)
}

func TestAppendMessageBadIndex(t *testing.T) {
	store := NewConversationStore(NewDocumentStore(t.TempDir()))
	st := NewState()

	err := store.AppendMessage(st, 0, models.RoleUser, "Hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	err = store.AppendMessage(st, -1, models.RoleUser, "Hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestDeleteConversationAdjustsActive(t *testing.T) {
	store := NewConversationStore(NewDocumentStore(t.TempDir()))
	st := NewState()

	store.Create(st)
	store.Create(st)
	store.Create(st)
	st.SetActiveConversation(2)

	// Deleting below the active index shifts the selection down.
	require.NoError(t, store.Delete(st, 0))
	assert.Equal(t, 1, st.ActiveConversation())
	assert.Len(t, store.Document(st).Conversations, 2)

	// Deleting the active conversation clears the selection.
	require.NoError(t, store.Delete(st, 1))
	assert.Equal(t, models.NoActiveConversation, st.ActiveConversation())
}

func TestDeleteConversationBadIndex(t *testing.T) {
	store := NewConversationStore(NewDocumentStore(t.TempDir()))
	st := NewState()

	assert.ErrorIs(t, store.Delete(st, 0), ErrConversationNotFound)
}

func TestSetTitle(t *testing.T) {
	store := NewConversationStore(NewDocumentStore(t.TempDir()))
	st := NewState()

	idx := store.Create(st)
	require.NoError(t, store.SetTitle(st, idx, "Feeling anxious"))
	assert.Equal(t, "Feeling anxious", store.Document(st).Conversations[idx].Title)

	assert.ErrorIs(t, store.SetTitle(st, 5, "nope"), ErrConversationNotFound)
}
