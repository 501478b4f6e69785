// Package store persists named JSON documents as flat files under a data
// directory. Loads of missing or corrupt files yield the empty container so
// a fresh or damaged deployment starts clean. Saves rewrite the whole
// document through a temp file and rename.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/patchwerk/discord-riddle-bot/logging"
	"github.com/patchwerk/discord-riddle-bot/metrics"
)

// Document names used by the bot.
const (
	DocScores   = "scores.json"
	DocRiddles  = "riddles.json"
	DocChannels = "channels.json"
	DocWordGame = "wordgame.json"
	DocTickets  = "tickets.json"
)

// PersistenceError reports a failed document write. The in-memory mutation
// that triggered the write stays live; only the flush failed.
type PersistenceError struct {
	Doc string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Doc, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store reads and writes JSON documents in one directory.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *logging.Logger
}

func New(dir string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the data directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Load decodes the named document into v. A missing or corrupt file leaves v
// untouched and returns nil: callers pass in the empty container they want to
// start from. Only I/O errors other than absence are reported, and those are
// logged rather than escalated too.
func (s *Store) Load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("unreadable document, starting empty", "doc", name, "error", err.Error())
		}
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("corrupt document, starting empty", "doc", name, "error", err.Error())
		return nil
	}
	return nil
}

// LoadRaw returns the raw bytes of a document, or nil when absent.
func (s *Store) LoadRaw(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil
	}
	return raw
}

// Save rewrites the named document with the JSON encoding of v.
func (s *Store) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Doc: name, Err: err}
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		metrics.PersistenceErrors.Add(1)
		return &PersistenceError{Doc: name, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		metrics.PersistenceErrors.Add(1)
		return &PersistenceError{Doc: name, Err: err}
	}

	s.logger.Debug("document flushed", "doc", name, "bytes", len(raw))
	return nil
}

// WriteFile writes an arbitrary file (e.g. a ticket transcript) under the
// data directory and returns its path.
func (s *Store) WriteFile(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &PersistenceError{Doc: name, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		metrics.PersistenceErrors.Add(1)
		return "", &PersistenceError{Doc: name, Err: err}
	}
	return path, nil
}
