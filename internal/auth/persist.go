package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/aurumfx/lbadmin/internal/config"
	"github.com/aurumfx/lbadmin/internal/keyring"
)

// ErrNoSession is returned by a Persister that holds no saved session.
var ErrNoSession = errors.New("no saved session")

// SavedSession is the part of a session that survives restarts.
type SavedSession struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name,omitempty"`
}

// Persister retains the session between runs.
type Persister interface {
	Load() (*SavedSession, error)
	Save(s SavedSession) error
	Clear() error
}

// KeyringPersister stores the session in a keyring.Store.
type KeyringPersister struct {
	store keyring.Store
}

// NewKeyringPersister creates a persister backed by store.
func NewKeyringPersister(store keyring.Store) *KeyringPersister {
	return &KeyringPersister{store: store}
}

// Load reads the saved session. A missing token yields ErrNoSession.
func (p *KeyringPersister) Load() (*SavedSession, error) {
	sess, err := keyring.ReadSession(p.store)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &SavedSession{Token: sess.Token, DisplayName: sess.DisplayName}, nil
}

// Save writes the session to the keyring.
func (p *KeyringPersister) Save(s SavedSession) error {
	return keyring.WriteSession(p.store, keyring.Session{Token: s.Token, DisplayName: s.DisplayName})
}

// Clear removes both keyring entries.
func (p *KeyringPersister) Clear() error {
	return keyring.DeleteSession(p.store)
}

// FilePersister stores the session as JSON in a 0600 file, for machines
// without a usable system keyring.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// SessionFilePath returns the default session file location.
func SessionFilePath() string {
	return filepath.Join(config.ConfigDir(), ".session")
}

// Load reads the session file. A missing or empty file yields ErrNoSession.
func (p *FilePersister) Load() (*SavedSession, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var s SavedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session file, creating parent directories with 0700.
func (p *FilePersister) Save(s SavedSession) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0600)
}

// Clear removes the session file. A missing file is not an error.
func (p *FilePersister) Clear() error {
	err := os.Remove(p.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
