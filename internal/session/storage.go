package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the durable local store for the token/user pair. It survives
// process restarts and is written only by the session store.
type Storage interface {
	Load() (token string, user *User, err error)
	Save(token string, user *User) error
	Clear() error
}

// storedSession is the on-disk shape: the two entries the contract names.
type storedSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// FileStorage persists the session as a JSON file, created with 0600 since
// it holds a live credential.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed storage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load() (string, *User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// A corrupt session file is the same as no session.
		return "", nil, nil
	}
	return stored.Token, stored.User, nil
}

func (s *FileStorage) Save(token string, user *User) error {
	data, err := json.Marshal(storedSession{Token: token, User: user})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStorage is an in-process Storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu     sync.Mutex
	stored *storedSession
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (s *MemoryStorage) Load() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == nil {
		return "", nil, nil
	}
	return s.stored.Token, s.stored.User, nil
}

func (s *MemoryStorage) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = &storedSession{Token: token, User: user}
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = nil
	return nil
}
