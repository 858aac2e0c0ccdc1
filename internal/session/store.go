package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
)

// Session is the persisted authentication state
type Session struct {
	Token     string             `json:"token"`
	User      domain.UserSummary `json:"user"`
	ExpiresAt time.Time          `json:"expiresAt,omitempty"`
}

func (s Session) empty() bool {
	return s.Token == ""
}

// Persister keeps a session across process restarts.
// Load returns an empty Session and no error when nothing is stored.
type Persister interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Store holds the current token and identity. It is written on login and
// logout and read by every outgoing request.
type Store struct {
	mu        sync.RWMutex
	current   Session
	persister Persister
	now       func() time.Time
}

func NewStore(p Persister) *Store {
	if p == nil {
		p = NewMemoryPersister()
	}
	return &Store{persister: p, now: time.Now}
}

// Init loads the persisted session. An expired token is discarded.
func (s *Store) Init(ctx context.Context) error {
	logger := logging.NewLogger(ctx).With("component", "session")

	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if !loaded.empty() && !loaded.ExpiresAt.IsZero() && !s.now().Before(loaded.ExpiresAt) {
		logger.LogInfo("init", "discarding expired session", "user", loaded.User.Username, "expired_at", loaded.ExpiresAt)
		if err := s.persister.Clear(ctx); err != nil {
			return fmt.Errorf("clear expired session: %w", err)
		}
		loaded = Session{}
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	if !loaded.empty() {
		logger.LogDebug("init", "session restored", "user", loaded.User.Username)
	}
	return nil
}

// Set installs a new token. When user is nil or has no id, the identity is
// read from the token's claims.
func (s *Store) Set(ctx context.Context, token string, user *domain.UserSummary) error {
	if token == "" {
		return fmt.Errorf("set session: empty token")
	}

	next := Session{Token: token}
	claims, claimsErr := ParseClaims(token)
	if claimsErr == nil {
		next.ExpiresAt = claims.Expiry()
	}

	switch {
	case user != nil && user.ID != "":
		next.User = *user
	case claimsErr == nil:
		next.User = claims.User()
		if user != nil {
			mergeUser(&next.User, *user)
		}
	case user != nil:
		next.User = *user
	}

	if err := s.persister.Save(ctx, next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	logging.NewLogger(ctx).With("component", "session").LogInfo("set", "session started", "user", next.User.Username, "admin", next.User.IsAdmin)
	return nil
}

// Clear ends the session, in memory and in the persister
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token satisfies gateway.TokenSource
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns the signed-in identity, false when signed out
func (s *Store) User() (domain.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User, !s.current.empty()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.current.empty() && s.current.User.IsAdmin
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.current.empty()
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func mergeUser(dst *domain.UserSummary, src domain.UserSummary) {
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.IsAdmin {
		dst.IsAdmin = true
	}
}
