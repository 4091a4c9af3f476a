// Package session persists the currently logged-in user record to a local
// file. The record carries id, name, email and user_type only; the password
// hash is never written. Its presence and user_type gate access to each
// dashboard.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"cylinderManagement/models"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrRoleMismatch = errors.New("logged-in user has a different role")
)

// Record is the persisted current-user record.
type Record struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	UserType models.UserType `json:"user_type"`
}

// Store reads and writes the session record at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the record for the given user, replacing any existing session.
func (s *Store) Save(u *models.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	rec := Record{ID: u.ID, Name: u.Name, Email: u.Email, UserType: u.UserType}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Load returns the current session record, or ErrNotLoggedIn when absent.
func (s *Store) Load() (*Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	if rec.ID == 0 {
		return nil, ErrNotLoggedIn
	}
	return &rec, nil
}

// Clear removes the session record. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RequireRole loads the session and verifies the user type. Returns
// ErrNotLoggedIn or ErrRoleMismatch; callers redirect to login on either.
func (s *Store) RequireRole(t models.UserType) (*Record, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}
	if rec.UserType != t {
		return nil, ErrRoleMismatch
	}
	return rec, nil
}
