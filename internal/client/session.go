package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State is the persisted session: at most one token at a time.
type State struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Session persists the bearer token across runs, the CLI's analogue of the
// browser's local storage. An absent file means anonymous/guest.
type Session struct {
	path string
}

func NewSession(path string) *Session {
	return &Session{path: path}
}

// DefaultSessionPath returns the session file location under the user's
// config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "jobtrackr", "session.json"), nil
}

// Load reads the stored session. Returns nil with no error when no session
// exists.
func (s *Session) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if state.Token == "" {
		return nil, nil
	}

	return &state, nil
}

// Save stores the session, replacing any previous one.
func (s *Session) Save(state *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// Token grants account access, keep it owner-readable only
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Clear discards the stored session. Logout is purely this: the token stays
// valid server-side until it expires.
func (s *Session) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
