// Package storage holds the sets of visited states that a search
// consults to avoid exploring a state twice.
package storage

import (
	"context"
	"sync"
)

// Storage is a set of state keys.
type Storage interface {
	// Visit adds the key and reports whether it was new.
	Visit(ctx context.Context, key string) (bool, error)

	// Len is the number of keys visited.
	Len() int

	Close() error
}

// MemStorage keeps keys in a map.
type MemStorage struct {
	sync.Mutex
	seen map[string]struct{}
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		seen: make(map[string]struct{}, 1024),
	}
}

func (s *MemStorage) Visit(ctx context.Context, key string) (bool, error) {
	s.Lock()
	defer s.Unlock()
	if _, have := s.seen[key]; have {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}

func (s *MemStorage) Len() int {
	s.Lock()
	defer s.Unlock()
	return len(s.seen)
}

func (s *MemStorage) Close() error {
	return nil
}
