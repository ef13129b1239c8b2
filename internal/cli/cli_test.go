package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/jsonpattern/internal/config"
	"github.com/aretw0/jsonpattern/internal/logging"
	"github.com/aretw0/jsonpattern/pkg/adapters/file"
	"github.com/aretw0/jsonpattern/pkg/adapters/memory"
	"github.com/aretw0/jsonpattern/pkg/adapters/redis"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry([]config.RuleConfig{
		{Name: "iban", Pattern: `^[A-Z]{2}[0-9]{2}`},
		{Name: "positive", Expression: "float(value) > 0"},
		{Name: "tax_id", Builtin: "cuit"},
		{Name: "account", Builtin: "cbu"},
		{Name: "day", Builtin: "date", Layout: "2006-01-02"},
		{Name: "greater_than_10", Builtin: "greater_than"},
		{Name: "big", Builtin: "greater_than", Threshold: 1000},
	})
	require.NoError(t, err)

	tests := []struct {
		datatype string
		value    any
		want     bool
	}{
		{"iban", "AR12abc", true},
		{"iban", "ar12", false},
		{"positive", "3", true},
		{"positive", "-3", false},
		{"tax_id", "20-12345678-6", true},
		{"tax_id", "20123456780", false},
		{"day", "2024-02-29", true},
		{"day", "29/02/2024", false},
		{"greater_than_10", 11, true},
		{"greater_than_10", 10, false},
		{"big", 1001, true},
		{"big", 999, false},
		{"email", "a@b.co", true},
	}

	for _, tt := range tests {
		t.Run(tt.datatype, func(t *testing.T) {
			got, err := reg.Validate(tt.datatype, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, reg.Has("account"))
}

func TestBuildRegistry_Errors(t *testing.T) {
	_, err := BuildRegistry([]config.RuleConfig{{Name: "bad", Pattern: "("}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)
	assert.ErrorContains(t, err, `rule "bad"`)

	_, err = BuildRegistry([]config.RuleConfig{{Name: "bad", Expression: "value +"}})
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = BuildRegistry([]config.RuleConfig{{Name: "bad", Builtin: "luhn"}})
	assert.ErrorContains(t, err, `unknown builtin "luhn"`)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closer, err := OpenStore(ctx, config.StoreConfig{Kind: "memory"}, 0)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, closer.Close())

	dir := t.TempDir()
	store, _, err = OpenStore(ctx, config.StoreConfig{Kind: "file", Dir: dir}, 0)
	require.NoError(t, err)
	require.IsType(t, &file.Store{}, store)
	assert.Equal(t, dir, store.(*file.Store).BasePath)

	mr := miniredis.RunT(t)
	store, closer, err = OpenStore(ctx, config.StoreConfig{Kind: "redis", Redis: config.RedisConfig{Addr: mr.Addr()}}, 0)
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, store)
	assert.NoError(t, closer.Close())

	store, _, err = OpenStore(ctx, config.StoreConfig{Kind: "memory", Cache: true}, 0)
	require.NoError(t, err)
	assert.NotEqual(t, "*memory.Store", fmt.Sprintf("%T", store))

	_, _, err = OpenStore(ctx, config.StoreConfig{Kind: "etcd"}, 0)
	assert.ErrorContains(t, err, `unknown store kind "etcd"`)
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := OpenStore(context.Background(), config.StoreConfig{Kind: "redis", Redis: config.RedisConfig{Addr: addr}}, 0)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestBuildCatalog_SeedsSchemaDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payment.yaml"), []byte("\"!amount\": number\n\"!iban\": iban\n"), 0644))

	cfg := &config.Config{
		Store:     config.StoreConfig{Kind: "memory"},
		SchemaDir: dir,
		Matcher:   config.MatcherConfig{MaxDepth: 32},
		Rules:     []config.RuleConfig{{Name: "iban", Pattern: `^[A-Z]{2}[0-9]{2}`}},
	}

	c, closer, err := BuildCatalog(context.Background(), cfg, logging.NewNop(), domain.EvaluationHooks{})
	require.NoError(t, err)
	defer closer.Close()

	names, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"payment"}, names)

	report, err := c.Validate(context.Background(), "payment", `{"amount": "x", "iban": "AR00"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount is not well formatted"}, report.Errors)
}

func TestBuildCatalog_BadSeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`["not", "an", "object"]`), 0644))

	cfg := &config.Config{Store: config.StoreConfig{Kind: "memory"}, SchemaDir: dir}
	_, _, err := BuildCatalog(context.Background(), cfg, logging.NewNop(), domain.EvaluationHooks{})
	assert.ErrorIs(t, err, domain.ErrSchemaFormat)
}

func TestLoadSchemaFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "s.json")
	yamlPath := filepath.Join(dir, "s.yml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"!b": "string", "a": "number"}`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("\"!b\": string\na: number\n"), 0644))

	for _, path := range []string{jsonPath, yamlPath} {
		node, err := LoadSchemaFile(path, 0)
		require.NoError(t, err, path)
		require.Equal(t, 2, node.Len())
		assert.Equal(t, "b", node.Entries[0].Field)
		assert.True(t, node.Entries[0].Required)
	}

	_, err := LoadSchemaFile(filepath.Join(dir, "missing.json"), 0)
	assert.ErrorContains(t, err, "failed to read schema")
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": 1}`), 0644))

	inputs, err := ReadInputs(nil, strings.NewReader(`{"b": 2}`))
	require.NoError(t, err)
	assert.Equal(t, []Input{{Name: "<stdin>", Data: []byte(`{"b": 2}`)}}, inputs)

	inputs, err = ReadInputs([]string{path, "-"}, strings.NewReader("{}"))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, path, inputs[0].Name)
	assert.Equal(t, "<stdin>", inputs[1].Name)

	_, err = ReadInputs([]string{filepath.Join(dir, "nope.json")}, nil)
	assert.Error(t, err)
}
