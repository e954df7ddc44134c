package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/mutagraph/pkg/ports"
)

// Store implements ports.TraceStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory trace store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save keeps the trace for the keyspace.
func (s *Store) Save(ctx context.Context, keyspace string, trace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyspace] = trace
	return nil
}

// Load retrieves the trace for the keyspace.
func (s *Store) Load(ctx context.Context, keyspace string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trace, ok := s.data[keyspace]
	if !ok {
		return "", ports.ErrTraceNotFound
	}
	return trace, nil
}

// Delete removes the trace.
func (s *Store) Delete(ctx context.Context, keyspace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, keyspace)
	return nil
}

// List returns the archived keyspaces in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyspaces := make([]string, 0, len(s.data))
	for ks := range s.data {
		keyspaces = append(keyspaces, ks)
	}
	sort.Strings(keyspaces)
	return keyspaces, nil
}
