package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatConversationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	// Nothing yet, nothing selected.
	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, payload["conversations"])
	assert.Equal(t, float64(-1), payload["active"])

	// Sending without a selection starts a conversation implicitly.
	status, payload = doJSON(t, http.MethodPost, srv.URL+"/api/chat/message", token, map[string]string{
		"message": "I had a rough day",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, payload["reply"])
	assert.Equal(t, float64(0), payload["index"])

	conv, _ := payload["conversation"].(map[string]interface{})
	require.NotNil(t, conv)
	messages, _ := conv["messages"].([]interface{})
	require.Len(t, messages, 2)

	// The first exchange set a title from the opening message.
	title, _ := conv["title"].(string)
	assert.Contains(t, title, "I had a rough day")

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), payload["active"])

	status, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/chat/conversations?index=0", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, payload["conversations"])
	assert.Equal(t, float64(-1), payload["active"])
}

func TestChatSelectAndRename(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusCreated, status)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/chat/conversations/active", token, map[string]int{"index": 0})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), payload["active"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat/conversations/rename", token, map[string]interface{}{
		"index": 0, "title": "Check-in",
	})
	require.Equal(t, http.StatusOK, status)

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/chat/conversations", token, nil)
	require.Equal(t, http.StatusOK, status)
	convs, _ := payload["conversations"].([]interface{})
	require.Len(t, convs, 2)
	first, _ := convs[0].(map[string]interface{})
	assert.Equal(t, "Check-in", first["title"])

	// Selecting an index out of range fails.
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/chat/conversations/active", token, map[string]int{"index": 7})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestChatEmptyMessageRejected(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/chat/message", token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetTones(t *testing.T) {
	srv := newTestServer(t)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/chat/tones", "", nil)
	require.Equal(t, http.StatusOK, status)
	tones, _ := payload["tones"].(map[string]interface{})
	assert.Len(t, tones, 5)
	assert.Equal(t, "Compassionate Listener", payload["default"])
}

func TestMoodEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/mood", token, map[string]interface{}{
		"level": "good", "notes": "slept well", "activities": []string{"exercise"},
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/mood", token, map[string]string{"level": "ecstatic"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/mood?days=7", token, nil)
	require.Equal(t, http.StatusOK, status)
	entries, _ := payload["entries"].([]interface{})
	assert.Len(t, entries, 1)

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/mood/statistics?days=7", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats, _ := payload["statistics"].(map[string]interface{})
	require.NotNil(t, stats)
	assert.Equal(t, float64(1), stats["count"])
	assert.Equal(t, float64(4), stats["mean"])
	assert.Equal(t, "good", stats["mode"])
}

func TestToolNavigation(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/tools", token, nil)
	require.Equal(t, http.StatusOK, status)
	toolList, _ := payload["tools"].([]interface{})
	assert.Len(t, toolList, 6)
	assert.Equal(t, "", payload["active"])

	status, payload = doJSON(t, http.MethodPost, srv.URL+"/api/tools/pomodoro/open", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pomodoro", payload["tool"])

	status, payload = doJSON(t, http.MethodPost, srv.URL+"/api/tools/pomodoro/action", token, map[string]interface{}{
		"action": "start",
		"params": map[string]interface{}{"task": "journaling", "work_minutes": 10},
	})
	require.Equal(t, http.StatusOK, status)
	view, _ := payload["view"].(map[string]interface{})
	require.NotNil(t, view)
	assert.Equal(t, "work", view["phase"])
	assert.Equal(t, "journaling", view["task"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/tools/home", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/tools", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", payload["active"])

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/tools/tarot/open", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
