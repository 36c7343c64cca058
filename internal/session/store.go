// Package session persists the proof of a completed login as a single
// JSON file. Presence of a valid session is the sole gate for the chat
// view; there is no refresh or expiry at this layer.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Session mirrors the stored shape: user id plus epoch milliseconds of
// when the login happened.
type Session struct {
	UserID    int64 `json:"id"`
	Timestamp int64 `json:"timestamp"`
}

func New(userID int64) Session {
	return Session{UserID: userID, Timestamp: time.Now().UnixMilli()}
}

func (s Session) EstablishedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Store reads and writes the session file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the session file under the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "user.json"
	}
	return filepath.Join(home, ".ghichat", "user.json")
}

// Load reads the stored session. A file that does not parse, or parses to
// a non-positive user ID, counts as not logged in; the stale entry is
// evicted so the next read starts clean.
func (st *Store) Load() (Session, bool) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.UserID <= 0 {
		_ = st.Clear()
		return Session{}, false
	}
	return s, true
}

func (st *Store) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0600)
}

func (st *Store) Clear() error {
	err := os.Remove(st.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
