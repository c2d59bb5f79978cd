// Package auth keeps the session the way the web client keeps it in
// localStorage: access token, user id and the cached profile, persisted as
// one JSON file. Nothing here talks to the network.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/networkup/netup/pkg/model"
)

type Store struct {
	path string

	mu   sync.Mutex
	data sessionData
}

type sessionData struct {
	AccessToken string      `json:"accessToken,omitempty"`
	UserID      int64       `json:"userId,omitempty"`
	User        *model.User `json:"currentUser,omitempty"`
}

// Open loads the session file if it exists. A corrupt file is discarded and
// the store starts logged out, mirroring how the web client drops
// unreadable localStorage entries.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = sessionData{}
	}
	return s, nil
}

// DefaultPath places the session file under the user's config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "netup", "session.json"), nil
}

// AccessToken returns the stored token, empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AccessToken
}

// UserID returns the stored user id, 0 when logged out.
func (s *Store) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UserID
}

// Session resolves the active identity. ok is false when no usable session
// is stored.
func (s *Store) Session() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.AccessToken == "" || s.data.UserID == 0 {
		return model.Session{}, false
	}
	sess := model.Session{UserID: s.data.UserID}
	if s.data.User != nil {
		sess.DisplayName = s.data.User.Name
		sess.AvatarURL = s.data.User.AvatarURL
	}
	return sess, true
}

// SetAuth stores a fresh login and persists it.
func (s *Store) SetAuth(token string, userID int64, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = sessionData{AccessToken: token, UserID: userID, User: user}
	return s.save()
}

// Clear logs out and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = sessionData{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
