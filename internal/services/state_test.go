package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talkheal/talkheal-backend/internal/models"
)

func TestGetOrInitIsIdempotent(t *testing.T) {
	st := NewState()

	v := st.GetOrInit("counter", 1)
	assert.Equal(t, 1, v)

	// A second call with a different default returns the first value.
	v = st.GetOrInit("counter", 99)
	assert.Equal(t, 1, v)
}

func TestStateSetGetDelete(t *testing.T) {
	st := NewState()

	_, ok := st.Get("missing")
	assert.False(t, ok)

	st.Set("tone", "Wise Friend")
	v, ok := st.Get("tone")
	assert.True(t, ok)
	assert.Equal(t, "Wise Friend", v)

	st.Delete("tone")
	_, ok = st.Get("tone")
	assert.False(t, ok)
}

func TestActiveConversationDefaultsToNone(t *testing.T) {
	st := NewState()
	assert.Equal(t, models.NoActiveConversation, st.ActiveConversation())

	st.SetActiveConversation(2)
	assert.Equal(t, 2, st.ActiveConversation())
}

func TestActiveToolDefaultsToHome(t *testing.T) {
	st := NewState()
	assert.Equal(t, "", st.ActiveTool())

	st.SetActiveTool("pomodoro")
	assert.Equal(t, "pomodoro", st.ActiveTool())
}
