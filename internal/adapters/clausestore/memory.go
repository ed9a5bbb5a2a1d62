// Package clausestore provides clause cache adapters.
// Adapters implement ports.ClauseStore; pick one with Open.
package clausestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
)

// Store is a ClauseStore that holds resources until closed.
type Store interface {
	ports.ClauseStore
	Close() error
}

// Open returns the store for driver: "memory" or "sqlite" (rooted at dataPath).
func Open(driver, dataPath string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewInMemoryStore(), nil
	case "sqlite":
		s, err := NewSQLiteStore(dataPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown clause store driver %q", driver)
	}
}

// InMemoryStore keeps clauses per document in a map. Data is lost on exit.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]entities.CachedClauses // docID -> clauses in document order
}

// NewInMemoryStore creates a new in-memory clause store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs: make(map[string]entities.CachedClauses),
	}
}

// Put replaces the entry stored for a document.
func (s *InMemoryStore) Put(ctx context.Context, documentID string, entry entities.CachedClauses) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Clauses = append([]entities.Clause{}, entry.Clauses...)
	s.docs[documentID] = entry
	return nil
}

// Get returns a copy of the entry for a document.
func (s *InMemoryStore) Get(ctx context.Context, documentID string) (entities.CachedClauses, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.docs[documentID]
	if !ok {
		return entities.CachedClauses{}, false, nil
	}
	entry.Clauses = append([]entities.Clause{}, entry.Clauses...)
	return entry, true, nil
}

// Delete removes all clauses for a document.
func (s *InMemoryStore) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, documentID)
	return nil
}

// Clear removes all data from the store.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]entities.CachedClauses)
	return nil
}

// Count returns the number of cached documents.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs), nil
}

// Close is a no-op.
func (s *InMemoryStore) Close() error {
	return nil
}
