package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/minn2020/minndash/internal/models"
)

const (
	usersFileName = "users.json"
	logsFileName  = "logs.json"
)

type userDocument struct {
	Users []models.User `json:"users"`
}

type logDocument struct {
	Logs []models.LogEntry `json:"logs"`
}

// FileStore persists both collections as pretty-printed whole-file JSON
// documents under a data directory. Every save rewrites the file in full;
// append semantics are load-full, append, rewrite-full. A mutex serializes
// access within the process.
type FileStore struct {
	usersPath string
	logsPath  string

	mu sync.Mutex
}

// NewFileStore roots a FileStore at dataDir, creating the directory and
// empty collection files when absent.
func NewFileStore(dataDir string) (*FileStore, error) {
	s := &FileStore{
		usersPath: filepath.Join(dataDir, usersFileName),
		logsPath:  filepath.Join(dataDir, logsFileName),
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	if err := s.ensureFile(s.usersPath, userDocument{Users: []models.User{}}); err != nil {
		return nil, err
	}
	if err := s.ensureFile(s.logsPath, logDocument{Logs: []models.LogEntry{}}); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadUsers returns the full user collection.
func (s *FileStore) LoadUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc userDocument
	if err := s.read(s.usersPath, &doc); err != nil {
		return nil, err
	}
	return doc.Users, nil
}

// SaveUsers serializes and overwrites the user file in full.
func (s *FileStore) SaveUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if users == nil {
		users = []models.User{}
	}
	return s.write(s.usersPath, userDocument{Users: users})
}

// AppendLog loads the log collection, appends one entry, and writes back.
func (s *FileStore) AppendLog(entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc logDocument
	if err := s.read(s.logsPath, &doc); err != nil {
		return err
	}
	doc.Logs = append(doc.Logs, entry)
	return s.write(s.logsPath, doc)
}

// LoadLogs returns the full audit log.
func (s *FileStore) LoadLogs() ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc logDocument
	if err := s.read(s.logsPath, &doc); err != nil {
		return nil, err
	}
	return doc.Logs, nil
}

func (s *FileStore) ensureFile(path string, empty any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("store: stat %s: %w", filepath.Base(path), err)
	}
	return s.write(path, empty)
}

func (s *FileStore) read(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("store: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("store: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) write(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
