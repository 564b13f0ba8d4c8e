package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/talkheal/talkheal-backend/internal/config"
	"github.com/talkheal/talkheal-backend/internal/models"
)

// oauthStateTTL bounds how long an issued state is accepted. Expired states
// are pruned lazily whenever a verification attempt runs; there is no
// background sweep.
const oauthStateTTL = 10 * time.Minute

var (
	ErrProviderNotConfigured = errors.New("OAuth provider not configured")
	ErrInvalidOAuthState     = errors.New("Invalid OAuth state")
	ErrNoAccessToken         = errors.New("No access token received")
)

type issuedState struct {
	provider string
	issuedAt time.Time
}

// OAuthService runs the authorization-code flow against the configured
// providers. A callback whose state was never issued here (or has expired)
// is a terminal failure; no user session is created.
type OAuthService struct {
	providers map[string]config.OAuthProviderConfig
	http      *resty.Client

	mu     sync.Mutex
	states map[string]issuedState
}

func NewOAuthService(providers map[string]config.OAuthProviderConfig) *OAuthService {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "TalkHeal-OAuth/1.0")

	return &OAuthService{
		providers: providers,
		http:      client,
		states:    make(map[string]issuedState),
	}
}

// AvailableProviders lists the providers with configured credentials.
func (s *OAuthService) AvailableProviders() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

// AuthURL issues a fresh state and builds the provider's authorization URL.
func (s *OAuthService) AuthURL(provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrProviderNotConfigured
	}

	state, err := s.issueState(provider)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("client_id", p.ClientID)
	params.Set("redirect_uri", p.RedirectURI)
	params.Set("scope", p.Scope)
	params.Set("response_type", "code")
	params.Set("state", state)
	if provider == models.ProviderGoogle {
		params.Set("access_type", "offline")
		params.Set("prompt", "consent")
	}

	return p.AuthURL + "?" + params.Encode(), nil
}

func (s *OAuthService) issueState(provider string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	s.mu.Lock()
	s.states[state] = issuedState{provider: provider, issuedAt: time.Now()}
	s.mu.Unlock()
	return state, nil
}

// consumeState validates a callback state against the issued set, pruning
// expired entries first. A valid state is single-use.
func (s *OAuthService) consumeState(state, provider string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, v := range s.states {
		if now.Sub(v.issuedAt) > oauthStateTTL {
			delete(s.states, k)
		}
	}

	v, ok := s.states[state]
	if !ok || v.provider != provider {
		return false
	}
	delete(s.states, state)
	return true
}

// HandleCallback runs the full callback leg: state check, code-for-token
// exchange, userinfo fetch, payload normalization, then create-or-get of the
// local user record. Any failure returns the user to the login flow; nothing
// is retried.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code, state string) (*models.User, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrProviderNotConfigured
	}
	if !s.consumeState(state, provider) {
		return nil, ErrInvalidOAuthState
	}

	accessToken, err := s.exchangeCode(ctx, p, code)
	if err != nil {
		return nil, err
	}

	identity, err := s.fetchIdentity(ctx, provider, p, accessToken)
	if err != nil {
		return nil, err
	}

	return s.createOrGetUser(identity)
}

func (s *OAuthService) exchangeCode(ctx context.Context, p config.OAuthProviderConfig, code string) (string, error) {
	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     p.ClientID,
			"client_secret": p.ClientSecret,
			"code":          code,
			"redirect_uri":  p.RedirectURI,
			"grant_type":    "authorization_code",
		}).
		SetResult(&tokenResp).
		Post(p.TokenURL)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token exchange failed: %s", resp.Status())
	}
	if tokenResp.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return tokenResp.AccessToken, nil
}

func (s *OAuthService) fetchIdentity(ctx context.Context, provider string, p config.OAuthProviderConfig, accessToken string) (models.NormalizedIdentity, error) {
	var raw map[string]interface{}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&raw).
		Get(p.UserInfoURL)
	if err != nil {
		return models.NormalizedIdentity{}, fmt.Errorf("userinfo fetch failed: %w", err)
	}
	if resp.IsError() {
		return models.NormalizedIdentity{}, fmt.Errorf("userinfo fetch failed: %s", resp.Status())
	}

	identity := NormalizeIdentity(provider, raw)

	// GitHub hides the email when it is private; the emails endpoint lists it.
	if provider == models.ProviderGitHub && identity.Email == "" {
		if email, verified, ok := s.fetchGitHubPrimaryEmail(ctx, accessToken); ok {
			identity.Email = email
			identity.Verified = verified
		}
	}
	return identity, nil
}

func (s *OAuthService) fetchGitHubPrimaryEmail(ctx context.Context, accessToken string) (string, bool, bool) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&emails).
		Get("https://api.github.com/user/emails")
	if err != nil || resp.IsError() || len(emails) == 0 {
		return "", false, false
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, e.Verified, true
		}
	}
	return emails[0].Email, emails[0].Verified, true
}

// createOrGetUser matches the identity to an existing record by email, or
// registers a new passwordless user.
func (s *OAuthService) createOrGetUser(identity models.NormalizedIdentity) (*models.User, error) {
	email := identity.Email
	if email == "" {
		email = fmt.Sprintf("%s_%s@talkheal.app", identity.Provider, identity.ProviderID)
	}

	if user, err := GetUserByEmail(email); err != nil {
		return nil, err
	} else if user != nil {
		return user, nil
	}

	name := identity.Name
	if name == "" {
		name = "OAuth User"
	}

	ok, message := RegisterUser(name, email, "", identity.Provider, identity.ProviderID, identity.Picture, identity.Verified)
	if !ok {
		return nil, errors.New(message)
	}
	return GetUserByEmail(email)
}
