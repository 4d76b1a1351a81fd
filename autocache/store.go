package autocache

import "errors"

// ErrStore wraps failures reported by a Store.
var ErrStore = errors.New("autocache: store failure")

// Store holds computed results by CallKey.
//
// The Engine clears the whole Store at the start of every with-cache
// benchmarking pass, so a Store must not be shared between Engines.
type Store interface {
	// Load returns the value stored under key.
	Load(key CallKey) (value any, ok bool)
	// Store sets the value under key, replacing any previous one.
	Store(key CallKey, value any) error
	// Clear removes every entry.
	Clear() error
}

// MapStore is the default unbounded Store backed by a plain map.
type MapStore struct {
	entries map[CallKey]any
}

func NewMapStore() *MapStore {
	return &MapStore{entries: make(map[CallKey]any)}
}

func (s *MapStore) Load(key CallKey) (any, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *MapStore) Store(key CallKey, value any) error {
	s.entries[key] = value
	return nil
}

func (s *MapStore) Clear() error {
	clear(s.entries)
	return nil
}

// Len returns the number of stored entries.
func (s *MapStore) Len() int {
	return len(s.entries)
}

var _ Store = (*MapStore)(nil)
