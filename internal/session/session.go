// Package session holds the process-wide authentication state: the access and
// refresh token pair and the user decoded from the access token.
//
// The store has exactly one mutation entry point, SetTokens. The user is
// recomputed from the access token on every call and is never set directly.
package session

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storefront-dev/storefront/internal/storage"
	"github.com/storefront-dev/storefront/internal/token"
)

// Session is an immutable snapshot of the store
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *token.Claims
}

// IsAuthenticated reports whether an access token is present
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Roles returns the user's normalized roles, or nil
func (s Session) Roles() []string {
	if s.User == nil {
		return nil
	}
	return s.User.Roles
}

// Store owns the token pair and keeps storage in sync with it
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  zerolog.Logger

	accessToken  string
	refreshToken string
	user         *token.Claims
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for session events
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open restores the session persisted in st
func Open(st storage.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: st,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	access, _, err := st.Get(storage.AccessTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to restore access token: %w", err)
	}
	refresh, _, err := st.Get(storage.RefreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to restore refresh token: %w", err)
	}

	s.accessToken = access
	s.refreshToken = refresh
	s.user = decodeUser(access)

	s.logger.Debug().
		Bool("authenticated", access != "").
		Bool("user_decoded", s.user != nil).
		Msg("Session restored")

	return s, nil
}

// SetTokens replaces both tokens. An empty string clears a token and removes
// its stored value. Memory always reflects the latest call even when
// persisting fails.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.user = decodeUser(accessToken)

	if err := persist(s.storage, storage.AccessTokenKey, accessToken); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist access token")
		return err
	}
	if err := persist(s.storage, storage.RefreshTokenKey, refreshToken); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist refresh token")
		return err
	}

	s.logger.Debug().
		Bool("authenticated", accessToken != "").
		Bool("user_decoded", s.user != nil).
		Msg("Session tokens updated")

	return nil
}

// Logout clears both tokens and the derived user. It does not call the API.
func (s *Store) Logout() error {
	if err := s.SetTokens("", ""); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Session returns a snapshot of the current state
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Session{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		User:         cloneClaims(s.user),
	}
}

// AccessToken returns the current access token, or "" when logged out
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// User returns a copy of the decoded user, or nil
func (s *Store) User() *token.Claims {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneClaims(s.user)
}

func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// HasRole reports whether the current user carries role (case-insensitive)
func (s *Store) HasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.HasRole(role)
}

func decodeUser(accessToken string) *token.Claims {
	if accessToken == "" {
		return nil
	}
	claims, ok := token.Decode(accessToken)
	if !ok {
		return nil
	}
	return claims
}

func persist(st storage.Storage, key, value string) error {
	if value == "" {
		if err := st.Remove(key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
		return nil
	}
	if err := st.Set(key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func cloneClaims(c *token.Claims) *token.Claims {
	if c == nil {
		return nil
	}
	out := *c
	if c.Roles != nil {
		out.Roles = append([]string(nil), c.Roles...)
	}
	return &out
}
