package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"store-rating/internal/domain"
)

// Session is everything the client remembers between runs. An empty Role
// means nobody is logged in.
type Session struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

func (s Session) LoggedIn() bool { return s.Token != "" && s.Role.Valid() }

// SessionStore persists the session on the client side.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session as JSON at Path, readable only by the owner.
type FileStore struct{ Path string }

func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storectl", "session.json")
}

func (f FileStore) Load() (Session, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		// a corrupt file is treated as logged out
		return Session{}, nil
	}
	return s, nil
}

func (f FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type MemoryStore struct {
	mu sync.Mutex
	s  Session
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear() error { return m.Save(Session{}) }
