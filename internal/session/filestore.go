package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk layout of the session store: one JSON file
// holding every session, with a version counter bumped on each write so
// concurrent writers can be detected instead of silently stomping each
// other.
type document struct {
	Version  int64      `json:"version"`
	Sessions []*Session `json:"sessions"`
}

// FileStore persists sessions to a single JSON document.
type FileStore struct {
	path    string
	mu      sync.Mutex
	version int64
}

// NewFileStore creates a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the store's file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load returns the persisted sessions. A missing or empty document is
// seeded with exactly one default session, so the result is never empty.
func (fs *FileStore) Load() ([]*Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.read()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading session store: %w", err)
		}
		doc = &document{}
	}

	if len(doc.Sessions) == 0 {
		doc.Sessions = []*Session{NewSession()}
		doc.Version++
		if err := fs.write(doc); err != nil {
			return nil, fmt.Errorf("seeding session store: %w", err)
		}
	}

	fs.version = doc.Version
	return doc.Sessions, nil
}

// Save persists the full collection, bumping the version counter. When the
// on-disk version no longer matches the one this store last read or wrote,
// Save returns ErrConflict without touching the file.
func (fs *FileStore) Save(sessions []*Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if doc, err := fs.read(); err == nil && doc.Version != fs.version {
		return fmt.Errorf("saving %d sessions: %w", len(sessions), ErrConflict)
	}

	doc := &document{Version: fs.version + 1, Sessions: sessions}
	if err := fs.write(doc); err != nil {
		return fmt.Errorf("saving session store: %w", err)
	}
	fs.version = doc.Version
	return nil
}

// Refresh re-reads the document, adopting the on-disk version. It is used
// to resynchronize after ErrConflict.
func (fs *FileStore) Refresh() ([]*Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	doc, err := fs.read()
	if err != nil {
		return nil, fmt.Errorf("refreshing session store: %w", err)
	}
	fs.version = doc.Version
	return doc.Sessions, nil
}

func (fs *FileStore) read() (*document, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fs.path, err)
	}
	return &doc, nil
}

// write replaces the document atomically: temp file in the same directory,
// then rename.
func (fs *FileStore) write(doc *document) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session store: %w", err)
	}
	return nil
}
