package middleware

import (
	"context"
	"testing"

	"github.com/aretw0/jsonpattern/pkg/adapters/memory"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts the loads that reach the wrapped store.
type countingStore struct {
	ports.SchemaStore
	loads int
}

func (s *countingStore) Load(ctx context.Context, name string) (*schema.Node, error) {
	s.loads++
	return s.SchemaStore.Load(ctx, name)
}

func TestCacheMiddleware_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, Chain(memory.NewStore(), NewCacheMiddleware()))
}

func TestCacheMiddleware(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{SchemaStore: memory.NewStore()}
	store := Chain(backend, NewCacheMiddleware())

	v1, err := schema.ParseJSON([]byte(`{"!amount": "number"}`))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "payment", v1))

	for range 3 {
		node, err := store.Load(ctx, "payment")
		require.NoError(t, err)
		assert.Equal(t, 1, node.Len())
	}
	assert.Equal(t, 1, backend.loads)

	t.Run("returned schemas are copies", func(t *testing.T) {
		node, err := store.Load(ctx, "payment")
		require.NoError(t, err)
		node.Entries[0].Datatype = "string"

		again, err := store.Load(ctx, "payment")
		require.NoError(t, err)
		assert.Equal(t, "number", again.Entries[0].Datatype)
	})

	t.Run("save invalidates", func(t *testing.T) {
		v2, err := schema.ParseJSON([]byte(`{"!amount": "number", "currency": "ISO3166"}`))
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "payment", v2))

		node, err := store.Load(ctx, "payment")
		require.NoError(t, err)
		assert.Equal(t, 2, node.Len())
		assert.Equal(t, 2, backend.loads)
	})

	t.Run("delete invalidates", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "payment"))
		_, err := store.Load(ctx, "payment")
		assert.Error(t, err)
	})
}
