package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkheal/talkheal-backend/internal/config"
	"github.com/talkheal/talkheal-backend/internal/database"
	"github.com/talkheal/talkheal-backend/internal/handlers"
	"github.com/talkheal/talkheal-backend/internal/routes"
	"github.com/talkheal/talkheal-backend/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	require.NoError(t, database.Connect(":memory:"))
	t.Cleanup(func() { database.Disconnect() })

	cfg := &config.Config{
		JWTSecret: "test-secret",
		DataDir:   t.TempDir(),
	}
	sessions := services.NewSessionManager(services.NewMemoryTokenStore())
	docs := services.NewDocumentStore(cfg.DataDir)
	oauth := services.NewOAuthService(nil)

	handlers.Init(cfg, sessions, docs, services.StaticResponder{}, oauth, nil)

	r := chi.NewRouter()
	routes.SetupRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func signupAndSignin(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"name": "Ava", "email": "ava@example.com", "password": "Str0ngPass",
	})
	require.Equal(t, http.StatusCreated, status, payload["message"])

	status, payload = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signin", "", map[string]string{
		"email": "ava@example.com", "password": "Str0ngPass",
	})
	require.Equal(t, http.StatusOK, status, payload["message"])
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupSigninMe(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	user, _ := payload["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "Ava", user["name"])
	assert.Equal(t, "ava@example.com", user["email"])
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"name": "Ava", "email": "ava@example.com", "password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSignupDuplicateConflict(t *testing.T) {
	srv := newTestServer(t)
	signupAndSignin(t, srv)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signup", "", map[string]string{
		"name": "Other", "email": "ava@example.com", "password": "An0therPass",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", payload["message"])
}

func TestSigninWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	signupAndSignin(t, srv)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/auth/signin", "", map[string]string{
		"email": "ava@example.com", "password": "Wr0ngPass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", payload["message"])
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newTestServer(t)
	token := signupAndSignin(t, srv)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPasswordResetFlow(t *testing.T) {
	srv := newTestServer(t)
	signupAndSignin(t, srv)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/auth/forgot-password", "", map[string]string{
		"email": "ava@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	resetToken, _ := payload["reset_token"].(string)
	require.NotEmpty(t, resetToken)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "new_password": "Fresh1Pass",
	})
	require.Equal(t, http.StatusOK, status)

	// The token authorized exactly one change.
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/reset-password", "", map[string]string{
		"token": resetToken, "new_password": "Another1Pass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signin", "", map[string]string{
		"email": "ava@example.com", "password": "Str0ngPass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/signin", "", map[string]string{
		"email": "ava@example.com", "password": "Fresh1Pass",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/forgot-password", "", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, http.MethodGet, srv.URL+"/api/chat/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/tools", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
