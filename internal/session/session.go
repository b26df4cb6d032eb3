// Package session persists the auth token and user record between runs,
// the terminal analog of the browser's local storage. Presence of a stored
// session alone gates the authenticated view; the token is not validated
// client-side and carries no expiry handling; a stale token stays "valid"
// until a protected call fails.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"compdash/internal/model"
)

// Session is the persisted credential pair.
type Session struct {
	Token string     `json:"auth_token"`
	User  model.User `json:"user"`
}

// Valid reports whether both parts are present. No signature or expiry
// check happens here.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.Email != ""
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// DefaultPath places the session under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = home
	}
	return filepath.Join(dir, "compdash", "session.json")
}

// NewStore creates a store at path, or at DefaultPath when empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Load returns the stored session, or nil when none exists.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
