package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/jsonpattern/pkg/adapters/redis"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunSchemaStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	node, err := schema.ParseJSON([]byte(`{"!b": "string", "!a": "number"}`))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "payment", node))

	assert.True(t, mr.Exists("custom:app:payment"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	raw, err := mr.Get("custom:app:payment")
	require.NoError(t, err)
	assert.JSONEq(t, `{"!b": "string", "!a": "number"}`, raw)
	assert.Equal(t, `{"!b":"string","!a":"number"}`, raw, "authored order is kept")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"payment"}, list)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"broken", `["not", "a", "schema"]`))

	_, err := store.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrSchemaFormat)
}

func TestRedisStore_Ping(t *testing.T) {
	store, _ := newStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
