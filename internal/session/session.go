// Package session persists the signed-in identity across runs. The identity
// itself comes from an external sign-in flow; this store only keeps it and
// answers "is someone signed in".
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Identity is the opaque user object handed over after sign-in completes.
type Identity struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

type Store struct {
	path string

	mu  sync.RWMutex
	cur *Identity
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted identity. A missing file is a clean signed-out
// state, not an error.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	s.mu.Lock()
	s.cur = &id
	s.mu.Unlock()
	return nil
}

func (s *Store) Save(id Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.mu.Lock()
	s.cur = &id
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}

	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Identity{}, false
	}
	return *s.cur, true
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil
}
