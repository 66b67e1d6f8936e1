// Package session keeps the bearer token and the logged in user between runs.
//
// A Session is created once at start, loaded from its file and handed to every
// component that needs the token. Nothing reads the file behind its back.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spigell/talent-matcher/internal/talent"
)

const (
	appDir   = "talent-matcher"
	fileName = "session.json"
)

// stored is the on-disk layout. Keys are fixed.
type stored struct {
	Token string          `json:"auth_token,omitempty"`
	User  json.RawMessage `json:"user,omitempty"`
}

type Session struct {
	path string

	mu    sync.RWMutex
	token string
	user  *talent.User
}

// New returns an empty session persisted at path.
func New(path string) *Session {
	return &Session{path: path}
}

// DefaultPath returns the session file inside the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func (s *Session) Path() string { return s.path }

// Token implements talent.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *talent.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether both a token and a user are present.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Set replaces the in-memory token and user. Call Save to persist them.
func (s *Session) Set(token string, user *talent.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// Load reads the session file. A missing file leaves the session empty.
// A token stored without a readable user is treated as a broken session:
// the file is cleared and the session stays empty.
func (s *Session) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.Set("", nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file %q: %w", s.path, err)
	}

	var st stored
	if err := json.Unmarshal(data, &st); err != nil {
		return s.Clear()
	}

	if st.Token == "" {
		s.Set("", nil)
		return nil
	}
	if len(st.User) == 0 || string(st.User) == "null" {
		return s.Clear()
	}

	var user talent.User
	if err := json.Unmarshal(st.User, &user); err != nil {
		return s.Clear()
	}

	s.Set(st.Token, &user)
	return nil
}

// Save writes the session file, creating its directory when needed.
func (s *Session) Save() error {
	s.mu.RLock()
	st := stored{Token: s.token}
	var err error
	if s.user != nil {
		st.User, err = json.Marshal(s.user)
	}
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file %q: %w", s.path, err)
	}

	return nil
}

// Clear forgets the token and user and removes the session file.
func (s *Session) Clear() error {
	s.Set("", nil)

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %q: %w", s.path, err)
	}

	return nil
}
