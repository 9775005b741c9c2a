// Package auth holds the signed-in customer's session: login against the
// backend, the decoded identity, and its persistence between runs.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"storefront/pkg/api"
	"storefront/pkg/logger"
	"storefront/pkg/storage"
)

// StorageKey is where the session is persisted.
const StorageKey = "templo-dos-magos-auth"

// User-facing messages.
const (
	MsgTokenMissing = "Token não encontrado na resposta. Por favor, tente novamente."
	MsgTokenInvalid = "Token inválido. Por favor, tente novamente."
	MsgLoginFailed  = "Ocorreu um erro durante o login. Tente novamente mais tarde."
)

// User is the identity carried by the token.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// Session is the persisted login state. The zero value is logged out.
type Session struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresAt string `json:"expiresAt"`
}

// Authenticated reports whether the session holds a token. ExpiresAt is
// informational only.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Result is the outcome of Login.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginAPI is the part of the backend client Login needs.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
}

// Manager owns one customer's session.
type Manager struct {
	api      LoginAPI
	store    storage.Store
	log      *logger.Logger
	key      string
	navigate func(path string)

	mu      sync.RWMutex
	session Session
	loading bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// WithNavigator is called with "/" after Logout.
func WithNavigator(fn func(path string)) Option {
	return func(m *Manager) { m.navigate = fn }
}

// New builds a Manager and restores any persisted session. Missing or
// corrupt stored state leaves the manager logged out.
func New(ctx context.Context, client LoginAPI, store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		api:      client,
		store:    store,
		log:      logger.NewNop(),
		key:      StorageKey,
		navigate: func(string) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		m.log.Warn(ctx, "read stored session failed", "error", err)
		return
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		m.log.Warn(ctx, "discarding corrupt stored session", "error", err)
		if err := m.store.Delete(ctx, m.key); err != nil {
			m.log.Warn(ctx, "delete corrupt session failed", "error", err)
		}
		return
	}
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.session
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Authenticated()
}

// Loading reports whether a login is in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Login authenticates against the backend and, on success, persists the
// session decoded from the returned token. Failures are reported in the
// Result and leave the current session untouched.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "email", email, "error", err)
		return Result{Message: api.MessageOf(err, MsgLoginFailed)}
	}
	if resp.Token == "" {
		return Result{Message: MsgTokenMissing}
	}

	user, err := DecodeToken(resp.Token)
	if err != nil {
		m.log.Warn(ctx, "login token rejected", "error", err)
		return Result{Message: MsgTokenInvalid}
	}

	s := Session{
		User:      &user,
		Token:     resp.Token,
		TokenType: resp.Type,
		ExpiresAt: resp.ExpiresAt,
	}
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	m.persist(ctx, s)
	m.log.Info(ctx, "logged in", "user_id", user.ID)
	return Result{Success: true}
}

// Logout drops the session and navigates back to the storefront root.
func (m *Manager) Logout(ctx context.Context) {
	m.Reset(ctx)
	m.navigate("/")
}

// Reset drops the persisted and in-memory session without navigating.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()
	if err := m.store.Delete(ctx, m.key); err != nil {
		m.log.Warn(ctx, "delete stored session failed", "error", err)
	}
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

// persist writes s. A storage failure keeps the in-memory session; it only
// costs the session on the next restart.
func (m *Manager) persist(ctx context.Context, s Session) {
	raw, err := json.Marshal(s)
	if err != nil {
		m.log.Error(ctx, "encode session failed", "error", err)
		return
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		m.log.Warn(ctx, "persist session failed", "error", err)
	}
}
