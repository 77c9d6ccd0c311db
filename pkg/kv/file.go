package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type fileConfig struct {
	watch bool
	mode  os.FileMode
}

// FileOption configures a File store.
type FileOption func(*fileConfig)

// WithWatch enables an fsnotify watcher so edits made to the backing file
// by other processes are reloaded into the store.
func WithWatch() FileOption {
	return func(cfg *fileConfig) {
		cfg.watch = true
	}
}

// WithFileMode overrides the permissions used when persisting (default 0644).
func WithFileMode(mode os.FileMode) FileOption {
	return func(cfg *fileConfig) {
		if mode != 0 {
			cfg.mode = mode
		}
	}
}

// File persists keys to a single JSON document on disk. Reads are served
// from memory; every Set rewrites the document. A missing backing file is
// treated as an empty store, matching the lens contract that store absence
// is an expected runtime state.
type File struct {
	mu      sync.RWMutex
	path    string
	mode    os.FileMode
	values  map[string]any
	lastErr error

	watcher *fsnotify.Watcher
}

// NewFile opens (or lazily creates) the JSON store backed by path.
func NewFile(path string, opts ...FileOption) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("kv: file path must not be empty")
	}
	cfg := fileConfig{mode: 0o644}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	store := &File{
		path:   path,
		mode:   cfg.mode,
		values: map[string]any{},
	}
	if err := store.reload(); err != nil {
		return nil, err
	}

	if cfg.watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("kv: watch %q: %w", path, err)
		}
		// Watch the directory: editors and atomic writers replace the file,
		// which would invalidate a watch on the file itself.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("kv: watch %q: %w", path, err)
		}
		store.watcher = watcher
		go store.watch()
	}
	return store, nil
}

// Get returns the value stored under key and whether it was present.
func (s *File) Get(key string) (any, bool) {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()
	return value, ok
}

// Set stores value under key and rewrites the backing document. Persistence
// failures do not lose the in-memory write; they are surfaced via Err.
func (s *File) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.lastErr = s.persistLocked()
}

// Err reports the most recent persistence or reload failure, nil when the
// last operation succeeded.
func (s *File) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Close stops the fsnotify watcher when one was configured.
func (s *File) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *File) persistLocked() error {
	payload, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: marshal %q: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, payload, s.mode); err != nil {
		return fmt.Errorf("kv: write %q: %w", s.path, err)
	}
	return nil
}

func (s *File) reload() error {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("kv: read %q: %w", s.path, err)
	}
	values := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &values); err != nil {
			return fmt.Errorf("kv: decode %q: %w", s.path, err)
		}
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *File) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				s.mu.Lock()
				s.lastErr = err
				s.mu.Unlock()
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
