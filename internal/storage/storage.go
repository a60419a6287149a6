// Package storage provides keyed durable storage for local client records.
//
// It is the client-side analog of the browser's local storage: small JSON
// records addressed by string keys, surviving restarts. The interface is
// injected into the services that persist state so tests can substitute an
// in-memory fake.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no record exists under the key.
var ErrNotFound = errors.New("record not found")

// Store persists JSON-serializable records under string keys.
type Store interface {
	// Get unmarshals the record at key into out. Returns ErrNotFound when
	// the key has never been written or was deleted.
	Get(key string, out any) error

	// Put marshals v and durably stores it under key, replacing any
	// previous record.
	Put(key string, v any) error

	// Delete removes the record at key. Deleting a missing key is not an
	// error.
	Delete(key string) error
}

// FileStore is a Store writing one JSON file per key under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get reads and unmarshals the record at key.
func (s *FileStore) Get(key string, out any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("reading record %q: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding record %q: %w", key, err)
	}
	return nil
}

// Put marshals v and writes it under key with restrictive permissions.
func (s *FileStore) Put(key string, v any) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding record %q: %w", key, err)
	}

	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}

// Delete removes the record at key.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting record %q: %w", key, err)
	}
	return nil
}

// path maps a key to its file, flattening separators so keys like
// "chat_sessions_u42" stay single files.
func (s *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
