// Package kv provides ready-made implementations of the settings.Store
// capability: an in-memory map for tests and ephemeral runtimes, and a
// JSON-file-backed store that can watch for external edits.
package kv

import "sync"

// Memory is a minimal in-memory key-value store. It makes no persistence
// assumptions; keys are the "/"-joined node paths the lens produces.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]any{}}
}

// Get returns the value stored under key and whether it was present.
func (s *Memory) Get(key string) (any, bool) {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()
	return value, ok
}

// Set stores value under key, replacing any previous entry.
func (s *Memory) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Len reports the number of stored entries.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a detached copy of the stored entries.
func (s *Memory) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}
