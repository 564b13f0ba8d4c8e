package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/talkheal/talkheal-backend/internal/database"
)

const (
	// SessionDuration is 7 days.
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions.
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping.
	UserSessionKeyPrefix = "user_session:"
)

// TokenStore maps bearer session tokens to user emails.
type TokenStore interface {
	Create(email string) (string, error)
	Resolve(token string) (string, bool)
	Invalidate(token string)
	InvalidateUser(email string)
}

func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// MemoryTokenStore keeps session tokens in-process. Default when no Redis
// is configured; tokens die with the process and users sign in again.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	tokens  map[string]memorySession // token -> session
	byEmail map[string]string        // email -> token
}

type memorySession struct {
	email   string
	expires time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens:  make(map[string]memorySession),
		byEmail: make(map[string]string),
	}
}

// Create issues a token for the email. An existing session for the same user
// is invalidated first so the expiry timer restarts at login.
func (m *MemoryTokenStore) Create(email string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byEmail[email]; ok {
		delete(m.tokens, old)
	}
	m.tokens[token] = memorySession{email: email, expires: time.Now().Add(SessionDuration)}
	m.byEmail[email] = token
	return token, nil
}

func (m *MemoryTokenStore) Resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	m.mu.RLock()
	sess, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		m.Invalidate(token)
		return "", false
	}
	return sess.email, true
}

func (m *MemoryTokenStore) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.tokens[token]; ok {
		delete(m.byEmail, sess.email)
		delete(m.tokens, token)
	}
}

func (m *MemoryTokenStore) InvalidateUser(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.byEmail[email]; ok {
		delete(m.tokens, token)
		delete(m.byEmail, email)
	}
}

// RedisTokenStore stores tokens in Redis with a 7-day TTL so sessions
// survive process restarts and can be shared across instances.
type RedisTokenStore struct{}

func NewRedisTokenStore() *RedisTokenStore { return &RedisTokenStore{} }

func (r *RedisTokenStore) Create(email string) (string, error) {
	r.InvalidateUser(email)

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	ctx := context.Background()
	if err := database.RedisClient.Set(ctx, SessionKeyPrefix+token, email, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, UserSessionKeyPrefix+email, token, SessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (r *RedisTokenStore) Resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	email, err := database.RedisClient.Get(context.Background(), SessionKeyPrefix+token).Result()
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}

func (r *RedisTokenStore) Invalidate(token string) {
	if token == "" {
		return
	}
	ctx := context.Background()
	email, err := database.RedisClient.Get(ctx, SessionKeyPrefix+token).Result()
	if err == nil && email != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+email)
	}
	database.RedisClient.Del(ctx, SessionKeyPrefix+token)
}

func (r *RedisTokenStore) InvalidateUser(email string) {
	ctx := context.Background()
	token, err := database.RedisClient.Get(ctx, UserSessionKeyPrefix+email).Result()
	if err == nil && token != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+token)
	}
	database.RedisClient.Del(ctx, UserSessionKeyPrefix+email)
}

// SessionManager pairs bearer tokens with per-visit view state. The view
// state is always process-local; only token validation is delegated, so the
// Redis arm shares logins across instances without sharing view state.
type SessionManager struct {
	tokens TokenStore

	mu     sync.RWMutex
	states map[string]*State
}

func NewSessionManager(tokens TokenStore) *SessionManager {
	return &SessionManager{
		tokens: tokens,
		states: make(map[string]*State),
	}
}

// Create starts a session for an authenticated user and returns the bearer
// token plus a fresh view state.
func (m *SessionManager) Create(email string) (string, *State, error) {
	token, err := m.tokens.Create(email)
	if err != nil {
		return "", nil, err
	}
	st := NewState()
	m.mu.Lock()
	m.states[token] = st
	m.mu.Unlock()
	return token, st, nil
}

// Resolve validates a token and returns the owning email and view state. A
// valid token without local state (Redis-backed token after a restart) gets
// a fresh state, matching the "reinitialized with defaults" contract.
func (m *SessionManager) Resolve(token string) (string, *State, bool) {
	email, ok := m.tokens.Resolve(token)
	if !ok {
		return "", nil, false
	}

	m.mu.RLock()
	st, found := m.states[token]
	m.mu.RUnlock()
	if !found {
		st = NewState()
		m.mu.Lock()
		m.states[token] = st
		m.mu.Unlock()
	}
	return email, st, true
}

// Destroy ends a session: the token is invalidated and the view state
// discarded.
func (m *SessionManager) Destroy(token string) {
	m.tokens.Invalidate(token)
	m.mu.Lock()
	delete(m.states, token)
	m.mu.Unlock()
}

// DestroyUser invalidates whatever session the user holds, wherever its
// token lives. Orphaned view states are unreachable once the token is gone
// and get dropped with the process.
func (m *SessionManager) DestroyUser(email string) {
	m.tokens.InvalidateUser(email)
}
