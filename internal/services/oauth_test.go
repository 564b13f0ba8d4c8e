package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkheal/talkheal-backend/internal/config"
	"github.com/talkheal/talkheal-backend/internal/models"
)

func testProviders() map[string]config.OAuthProviderConfig {
	return map[string]config.OAuthProviderConfig{
		"google": {
			ClientID:     "id",
			ClientSecret: "secret",
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://oauth2.googleapis.com/token",
			UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
			Scope:        "openid email profile",
			RedirectURI:  "http://localhost:8080/api/auth/oauth/callback?provider=google",
		},
	}
}

func TestAuthURLIssuesState(t *testing.T) {
	svc := NewOAuthService(testProviders())

	authURL, err := svc.AuthURL("google")
	require.NoError(t, err)
	assert.Contains(t, authURL, "https://accounts.google.com/o/oauth2/v2/auth?")
	assert.Contains(t, authURL, "state=")
	assert.Contains(t, authURL, "access_type=offline")
	assert.Len(t, svc.states, 1)
}

func TestAuthURLUnknownProvider(t *testing.T) {
	svc := NewOAuthService(testProviders())

	_, err := svc.AuthURL("gitlab")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestConsumeStateIsSingleUse(t *testing.T) {
	svc := NewOAuthService(testProviders())

	state, err := svc.issueState("google")
	require.NoError(t, err)

	assert.True(t, svc.consumeState(state, "google"))
	assert.False(t, svc.consumeState(state, "google"), "state must not verify twice")
}

func TestConsumeStateWrongProvider(t *testing.T) {
	svc := NewOAuthService(testProviders())

	state, err := svc.issueState("google")
	require.NoError(t, err)
	assert.False(t, svc.consumeState(state, "github"))
}

func TestConsumeStateExpiry(t *testing.T) {
	svc := NewOAuthService(testProviders())

	state, err := svc.issueState("google")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.states[state] = issuedState{provider: "google", issuedAt: time.Now().Add(-11 * time.Minute)}
	svc.mu.Unlock()

	assert.False(t, svc.consumeState(state, "google"))
	assert.Empty(t, svc.states, "expired states are pruned on verification")
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	svc := NewOAuthService(testProviders())

	_, err := svc.HandleCallback(context.Background(), "google", "some-code", "never-issued")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)
}

func TestNormalizeGoogleIdentity(t *testing.T) {
	identity := NormalizeIdentity(models.ProviderGoogle, map[string]interface{}{
		"id":             "g-123",
		"email":          "ava@example.com",
		"name":           "Ava",
		"picture":        "https://img.example/ava.png",
		"verified_email": true,
	})

	assert.Equal(t, models.NormalizedIdentity{
		Provider:   models.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "ava@example.com",
		Name:       "Ava",
		Picture:    "https://img.example/ava.png",
		Verified:   true,
	}, identity)
}

func TestNormalizeGitHubIdentity(t *testing.T) {
	// GitHub sends the id as a number and may omit the display name.
	identity := NormalizeIdentity(models.ProviderGitHub, map[string]interface{}{
		"id":         float64(987654),
		"login":      "avadev",
		"avatar_url": "https://avatars.example/ava",
	})

	assert.Equal(t, "987654", identity.ProviderID)
	assert.Equal(t, "avadev", identity.Name)
	assert.Equal(t, "https://avatars.example/ava", identity.Picture)
	assert.True(t, identity.Verified)
}

func TestNormalizeMicrosoftIdentity(t *testing.T) {
	identity := NormalizeIdentity(models.ProviderMicrosoft, map[string]interface{}{
		"id":                "m-1",
		"displayName":       "Ava M",
		"userPrincipalName": "ava@contoso.com",
	})

	assert.Equal(t, "ava@contoso.com", identity.Email)
	assert.Equal(t, "Ava M", identity.Name)
}

func TestCreateOrGetUserFallbackEmail(t *testing.T) {
	setupTestDB(t)
	svc := NewOAuthService(testProviders())

	user, err := svc.createOrGetUser(models.NormalizedIdentity{
		Provider:   models.ProviderGitHub,
		ProviderID: "42",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "github_42@talkheal.app", user.Email)
	assert.Equal(t, "OAuth User", user.Name)

	// A second callback for the same identity matches the existing record.
	again, err := svc.createOrGetUser(models.NormalizedIdentity{
		Provider:   models.ProviderGitHub,
		ProviderID: "42",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}
