package middleware

import (
	"context"
	"sync"

	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

type cacheMiddleware struct {
	next ports.SchemaStore

	mu     sync.RWMutex
	loaded map[string]*schema.Node
}

// NewCacheMiddleware keeps loaded schemas in process memory. Writes through the
// wrapped store invalidate the entry; writes made by other processes are not seen.
func NewCacheMiddleware() Middleware {
	return func(next ports.SchemaStore) ports.SchemaStore {
		return &cacheMiddleware{next: next, loaded: make(map[string]*schema.Node)}
	}
}

func (m *cacheMiddleware) Save(ctx context.Context, name string, node *schema.Node) error {
	m.forget(name)
	return m.next.Save(ctx, name, node)
}

func (m *cacheMiddleware) Load(ctx context.Context, name string) (*schema.Node, error) {
	m.mu.RLock()
	node, ok := m.loaded[name]
	m.mu.RUnlock()
	if ok {
		return node.Clone(), nil
	}

	node, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.loaded[name] = node.Clone()
	m.mu.Unlock()
	return node, nil
}

func (m *cacheMiddleware) Delete(ctx context.Context, name string) error {
	m.forget(name)
	return m.next.Delete(ctx, name)
}

func (m *cacheMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *cacheMiddleware) forget(name string) {
	m.mu.Lock()
	delete(m.loaded, name)
	m.mu.Unlock()
}
