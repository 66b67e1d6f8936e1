package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/talent-matcher/internal/talent"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "nested", "session.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Token() != "" || s.User() != nil || s.LoggedIn() {
		t.Fatalf("expected empty session")
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s := New(path)
	s.Set(" token-1 ", &talent.User{ID: 3, Name: "Development User", Email: "dev@example.com"})
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded := New(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token() != "token-1" {
		t.Fatalf("unexpected token %q", loaded.Token())
	}
	user := loaded.User()
	if user == nil || user.ID != 3 || user.Email != "dev@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if !loaded.LoggedIn() {
		t.Fatalf("expected logged in session")
	}

	// Returned user is a copy.
	user.Name = "changed"
	if loaded.User().Name != "Development User" {
		t.Fatalf("session user must not be mutated through User()")
	}
}

func TestLoadClearsBrokenUser(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"auth_token":"abc","user":"not-an-object"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(path)
	if err := s.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Token() != "" {
		t.Fatalf("expected token to be dropped, got %q", s.Token())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected broken session file to be removed")
	}
}

func TestLoadTokenWithoutUserIsCleared(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"missing user": `{"auth_token":"abc"}`,
		"null user":    `{"auth_token":"abc","user":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "session.json")
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			s := New(path)
			if err := s.Load(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Token() != "" || s.LoggedIn() {
				t.Fatalf("expected empty session")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("expected session file to be removed, got %v", err)
			}
		})
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	s := New(path)
	s.Set("abc", &talent.User{ID: 1})
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Token() != "" || s.User() != nil {
		t.Fatalf("expected cleared session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file to be removed")
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestSessionIsTokenSource(t *testing.T) {
	t.Parallel()

	var _ talent.TokenSource = New("unused")
}
