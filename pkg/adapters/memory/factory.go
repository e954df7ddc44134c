package memory

import (
	"fmt"
	"sync"

	"github.com/aretw0/mutagraph/pkg/ports"
)

// Factory implements ports.Factory with keyspaces held in memory.
// Safe for concurrent use.
type Factory struct {
	mu        sync.Mutex
	keyspaces map[string]*keyspace
}

// NewFactory creates an empty in-memory factory.
func NewFactory() *Factory {
	return &Factory{
		keyspaces: make(map[string]*keyspace),
	}
}

// Session returns the session for the keyspace, creating the keyspace on first use.
func (f *Factory) Session(name string) (ports.Session, error) {
	if name == "" {
		return nil, fmt.Errorf("keyspace name is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ks, ok := f.keyspaces[name]
	if !ok {
		ks = newKeyspace(name)
		f.keyspaces[name] = ks
	}
	return &Session{ks: ks}, nil
}

// Keyspaces returns the names of the keyspaces created so far.
func (f *Factory) Keyspaces() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.keyspaces))
	for name := range f.keyspaces {
		names = append(names, name)
	}
	return names
}

// Session implements ports.Session.
type Session struct {
	ks *keyspace
}

// Keyspace returns the keyspace the session is bound to.
func (s *Session) Keyspace() string {
	return s.ks.name
}

// Open starts a transaction. Every transaction of a session observes the same
// keyspace contents; changes are applied immediately.
func (s *Session) Open(tx ports.TxType) (ports.Graph, error) {
	return &Graph{ks: s.ks, writable: tx == ports.TxWrite}, nil
}
