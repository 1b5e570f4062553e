// Package storage implements the persisted-state layer: a raw key-to-string
// primitive with file and sqlite backends, versioned record keys, and a
// debounced store that validates payloads on load and falls back to
// compiled-in defaults on any corruption.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// KV is the raw storage primitive the record store is built on: a simple
// key-to-string get/set with no transactional guarantees.
type KV interface {
	// ReadKey returns the value for key and whether it exists.
	ReadKey(key string) (string, bool)
	// WriteKey stores value under key.
	WriteKey(key, value string) error
	// DeleteKey removes key. Deleting a missing key is not an error.
	DeleteKey(key string) error
}

// Reloader is implemented by backends whose contents can change underneath
// the process (the file backend, when the file is edited externally).
type Reloader interface {
	Reload() error
}

// FileStore is a KV backed by a single JSON document of key-value pairs.
// All keys live in one file so an operator can inspect or hand-edit the
// whole board state in one place.
type FileStore struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// OpenFileStore opens or creates the file-backed store. A missing file
// starts empty; an unreadable or malformed file also starts empty, because
// the raw primitive must never fail the dashboard; record-level validation
// decides what is trusted.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, data: make(map[string]string)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Reload re-reads the backing file, replacing the in-memory contents.
func (s *FileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]string)
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}
	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		logrus.WithError(err).Warn("store file is not valid JSON; starting from an empty store")
		s.data = make(map[string]string)
		return nil
	}
	s.data = data
	return nil
}

// ReadKey returns the value for key and whether it exists.
func (s *FileStore) ReadKey(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// WriteKey stores value under key and persists the whole document.
func (s *FileStore) WriteKey(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persistLocked()
}

// DeleteKey removes key and persists the whole document.
func (s *FileStore) DeleteKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.persistLocked()
}

func (s *FileStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// MemStore is an in-memory KV for tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

// ReadKey returns the value for key and whether it exists.
func (s *MemStore) ReadKey(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// WriteKey stores value under key.
func (s *MemStore) WriteKey(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// DeleteKey removes key.
func (s *MemStore) DeleteKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
