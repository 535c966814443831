package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/ports"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*document.File
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*document.File),
	}
}

// Save keeps a deep copy of f, so later changes by the caller are not seen.
func (s *Store) Save(ctx context.Context, name string, f *document.File) error {
	copied := f.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy of the stored file.
func (s *Store) Load(ctx context.Context, name string) (*document.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.data[name]
	if !ok {
		return nil, ports.ErrDocumentNotFound
	}
	return f.Clone(), nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
