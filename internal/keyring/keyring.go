// Package keyring keeps the admin session (token and display name) in the
// operating system keyring, with environment overrides for headless use.
package keyring

import (
	"errors"
	"os"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServiceName namespaces every lbadmin entry in the keyring.
	ServiceName = "com.aurumfx.lbadmin"

	// KeyToken holds the session token issued at login.
	KeyToken = "session_token"

	// KeyDisplayName holds the name shown for the signed-in admin.
	KeyDisplayName = "display_name"

	// EnvToken supplies a session token without touching the keyring (CI,
	// containers, ssh sessions without a keyring daemon).
	EnvToken = "LBADMIN_TOKEN"

	// EnvDisplayName supplies the display name alongside EnvToken.
	EnvDisplayName = "LBADMIN_DISPLAY_NAME"
)

// ErrNotFound is returned when an entry is not in the keyring.
var ErrNotFound = errors.New("secret not found")

// Store is a service/key secret store.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// Session is the pair of entries lbadmin keeps per user.
type Session struct {
	Token       string
	DisplayName string
}

// ReadSession loads the session entries from s. A missing or empty token is
// ErrNotFound. The display name is cosmetic, so failing to read it leaves it
// empty rather than failing the load.
func ReadSession(s Store) (Session, error) {
	token, err := s.Get(ServiceName, KeyToken)
	if err != nil {
		return Session{}, err
	}
	if token == "" {
		return Session{}, ErrNotFound
	}

	name, _ := s.Get(ServiceName, KeyDisplayName)
	return Session{Token: token, DisplayName: name}, nil
}

// WriteSession stores sess in s. An empty display name removes any name left
// by a previous login so a stale name is never shown.
func WriteSession(s Store, sess Session) error {
	if sess.Token == "" {
		return errors.New("empty session token")
	}
	if err := s.Set(ServiceName, KeyToken, sess.Token); err != nil {
		return err
	}
	if sess.DisplayName == "" {
		return s.Delete(ServiceName, KeyDisplayName)
	}
	return s.Set(ServiceName, KeyDisplayName, sess.DisplayName)
}

// DeleteSession removes both entries. Both deletes are attempted even if the
// first fails.
func DeleteSession(s Store) error {
	tokenErr := s.Delete(ServiceName, KeyToken)
	nameErr := s.Delete(ServiceName, KeyDisplayName)
	return errors.Join(tokenErr, nameErr)
}

// SystemStore is the operating system keyring.
type SystemStore struct{}

func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

func (s *SystemStore) Get(service, key string) (string, error) {
	secret, err := gokeyring.Get(service, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (s *SystemStore) Set(service, key, value string) error {
	return gokeyring.Set(service, key, value)
}

// Delete treats an entry that is already gone as deleted.
func (s *SystemStore) Delete(service, key string) error {
	if err := gokeyring.Delete(service, key); err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return err
	}
	return nil
}

// EnvStore answers session reads from the environment when EnvToken is set
// and otherwise defers to the wrapped store. Writes always go to the
// wrapped store.
type EnvStore struct {
	underlying Store
}

func NewEnvStore(underlying Store) *EnvStore {
	return &EnvStore{underlying: underlying}
}

func (e *EnvStore) Get(service, key string) (string, error) {
	if service == ServiceName {
		switch key {
		case KeyToken:
			if v := os.Getenv(EnvToken); v != "" {
				return v, nil
			}
		case KeyDisplayName:
			if v := os.Getenv(EnvDisplayName); v != "" {
				return v, nil
			}
		}
	}
	return e.underlying.Get(service, key)
}

func (e *EnvStore) Set(service, key, value string) error {
	return e.underlying.Set(service, key, value)
}

func (e *EnvStore) Delete(service, key string) error {
	return e.underlying.Delete(service, key)
}
