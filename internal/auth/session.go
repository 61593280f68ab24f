package auth

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNotAuthenticated is returned by Token when no session is held.
var ErrNotAuthenticated = errors.New("not logged in")

// SessionStore is the source of truth for whether the admin is logged in.
// It is safe for concurrent use.
type SessionStore struct {
	mu          sync.RWMutex
	token       string
	displayName string

	persist Persister
	log     zerolog.Logger
}

// NewSessionStore creates an empty store. persist may be nil.
func NewSessionStore(persist Persister, log zerolog.Logger) *SessionStore {
	return &SessionStore{persist: persist, log: log}
}

// Hydrate adopts the persisted session, if any, as the initial state.
// A corrupt or unreadable session is treated as logged out.
func (s *SessionStore) Hydrate() {
	if s.persist == nil {
		return
	}

	saved, err := s.persist.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			s.log.Warn().Err(err).Msg("could not load saved session")
		}
		return
	}

	s.mu.Lock()
	s.token = saved.Token
	s.displayName = saved.DisplayName
	s.mu.Unlock()

	s.log.Debug().Str("user", saved.DisplayName).Msg("session restored")
}

// RecordLogin marks the session authenticated and asks the persister to
// retain it. The in-memory session is set even if persisting fails.
func (s *SessionStore) RecordLogin(token, displayName string) error {
	if token == "" {
		return errors.New("empty session token")
	}

	s.mu.Lock()
	s.token = token
	s.displayName = displayName
	s.mu.Unlock()

	s.log.Info().Str("user", displayName).Msg("logged in")

	if s.persist == nil {
		return nil
	}
	if err := s.persist.Save(SavedSession{Token: token, DisplayName: displayName}); err != nil {
		s.log.Warn().Err(err).Msg("could not persist session")
		return err
	}
	return nil
}

// RecordLogout clears every session field and purges the persisted copy.
func (s *SessionStore) RecordLogout() error {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.displayName = ""
	s.mu.Unlock()

	if wasAuthenticated {
		s.log.Info().Msg("logged out")
	}

	if s.persist == nil {
		return nil
	}
	if err := s.persist.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("could not purge saved session")
		return err
	}
	return nil
}

// IsAuthenticated reports whether a token is held.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the session token, satisfying api.TokenProvider.
func (s *SessionStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}

// DisplayName returns the logged-in user's name, or "" when logged out.
func (s *SessionStore) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName
}
