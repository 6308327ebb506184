// Package session persists the logged-in user id between runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Errors
var (
	ErrNoSession     = errors.New("no active session")
	ErrInvalidUserID = errors.New("invalid user ID: must be a number")
	ErrEmptyUserID   = fmt.Errorf("%w: empty input", ErrInvalidUserID)
)

// Store persists a single user id
type Store interface {
	// Load returns the stored id or ErrNoSession
	Load() (string, error)

	// Save replaces the stored id
	Save(userID string) error

	// Clear removes the stored id, reporting whether one existed
	Clear() (bool, error)
}

// Ensure concrete type implements the interface
var _ Store = (*FileStore)(nil)

// FileStore keeps the id as plain text in a single file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the session file
func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", ErrNoSession
	}
	if _, err := ParseUserID(id); err != nil {
		return "", fmt.Errorf("session file %s is corrupt: %w", f.path, err)
	}
	return id, nil
}

// Save writes the id with restricted permissions
func (f *FileStore) Save(userID string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(userID), 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear deletes the session file
func (f *FileStore) Clear() (bool, error) {
	if err := os.Remove(f.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return true, nil
}

// ParseUserID validates raw input as a non-negative integer id.
// The trimmed input is returned unchanged so it is stored as typed.
func ParseUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrEmptyUserID
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return id, nil
}
