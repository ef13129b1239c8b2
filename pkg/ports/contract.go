package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore implementation
// adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	src := []byte(`{"!version": "number", "!data": {"!Id": "number", "title": "string"}, "email": "email"}`)
	node, err := schema.ParseJSON(src)
	require.NoError(t, err)

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, node), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, node, loaded, "entries, order and requiredness survive storage")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		other, err := schema.ParseJSON([]byte(`{"!other": "string"}`))
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, name, other))
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, other, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, node))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-a"
		id2 := name + "-b"
		require.NoError(t, store.Save(ctx, id2, node))
		require.NoError(t, store.Save(ctx, id1, node))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})
}
