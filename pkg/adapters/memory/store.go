package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*schema.Node
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*schema.Node),
	}
}

// NewFromSchemas creates a store pre-populated with the given schemas.
func NewFromSchemas(schemas map[string]*schema.Node) (*Store, error) {
	s := NewStore()
	for name, node := range schemas {
		if err := s.Save(context.Background(), name, node); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save stores a copy of the schema.
func (s *Store) Save(ctx context.Context, name string, node *schema.Node) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if node == nil {
		return fmt.Errorf("%w: schema %q is nil", domain.ErrSchemaFormat, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = node.Clone()
	return nil
}

// Load returns a copy of the stored schema, so callers can't mutate the store by pointer.
func (s *Store) Load(ctx context.Context, name string) (*schema.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSchemaNotFound, name)
	}
	return node.Clone(), nil
}

// Delete removes the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored schema names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
