package state

import (
	"sort"
	"sync"
)

// FileName is the name of the persisted state file inside the
// application data directory.
const FileName = ".window-state"

// Metadata holds the last-known geometry and visibility of one window.
// Width and Height are physical pixels; X and Y are the outer position
// of the top-left corner in physical screen coordinates.
type Metadata struct {
	Width      uint32
	Height     uint32
	X          int32
	Y          int32
	Maximized  bool
	Visible    bool
	Decorated  bool
	Fullscreen bool
}

// DefaultMetadata returns the construction defaults for a window that
// has not been observed yet: shown and decorated, zero geometry.
func DefaultMetadata() Metadata {
	return Metadata{Visible: true, Decorated: true}
}

// Store is the shared mapping from window label to its metadata record.
// All access goes through a single exclusive lock covering the whole
// map. The store is created once at startup and shared by the restore
// protocol, every per-window event handler and the exit flush.
type Store struct {
	mu      sync.Mutex
	entries map[string]Metadata
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Metadata)}
}

// Get returns a copy of the entry for label.
func (s *Store) Get(label string) (Metadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	md, ok := s.entries[label]
	return md, ok
}

// Insert stores md under label, overwriting any prior entry.
func (s *Store) Insert(label string, md Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[label] = md
}

// InsertIfAbsent stores md under label unless an entry already exists.
// It reports whether the insert happened.
func (s *Store) InsertIfAbsent(label string, md Metadata) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[label]; ok {
		return false
	}
	s.entries[label] = md
	return true
}

// Update mutates the entry for label in place under the lock. It is a
// no-op when no entry exists and reports whether one did. The callback
// must not call back into the store.
func (s *Store) Update(label string, fn func(*Metadata)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	md, ok := s.entries[label]
	if !ok {
		return false
	}
	fn(&md)
	s.entries[label] = md
	return true
}

// Remove deletes the entry for label and reports whether it existed.
// Normal tracking never removes entries; this exists for the operator
// surfaces (CLI and MCP).
func (s *Store) Remove(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[label]; !ok {
		return false
	}
	delete(s.entries, label)
	return true
}

// Clear drops every entry and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]Metadata)
	return n
}

// Len returns the number of tracked windows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Labels returns all tracked labels in sorted order.
func (s *Store) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	labels := make([]string, 0, len(s.entries))
	for label := range s.entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Snapshot returns a copy of the whole mapping.
func (s *Store) Snapshot() map[string]Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Metadata, len(s.entries))
	for label, md := range s.entries {
		out[label] = md
	}
	return out
}

// Replace swaps the whole mapping for entries. A nil map resets the
// store to empty.
func (s *Store) Replace(entries map[string]Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Metadata, len(entries))
	for label, md := range entries {
		s.entries[label] = md
	}
}
