package catalog_test

import (
	"context"
	"testing"

	"github.com/aretw0/jsonpattern/pkg/adapters/file"
	"github.com/aretw0/jsonpattern/pkg/adapters/memory"
	"github.com/aretw0/jsonpattern/pkg/catalog"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Validator  = (*catalog.Catalog)(nil)
	_ ports.RuleLister = (*catalog.Catalog)(nil)
)

func TestCatalog_PutAndValidate(t *testing.T) {
	ctx := context.Background()
	c := catalog.New(memory.NewStore())

	_, err := c.Put(ctx, "payment", `{"!amount": "number", "!payer": {"!email": "email"}}`)
	require.NoError(t, err)

	report, err := c.Validate(ctx, "payment", `{"amount": "12.50", "payer": {"email": "a@b.co"}}`)
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Equal(t, "payment", report.Schema)
	assert.NotEmpty(t, report.ID)

	report, err = c.Validate(ctx, "payment", map[string]any{"payer": map[string]any{"email": "nope"}})
	require.NoError(t, err)
	assert.False(t, report.OK)
	assert.Equal(t, []string{"amount not found", "payer.email is not well formatted"}, report.Errors)
}

func TestCatalog_Errors(t *testing.T) {
	ctx := context.Background()
	c := catalog.New(memory.NewStore())

	_, err := c.Validate(ctx, "missing", `{}`)
	assert.ErrorIs(t, err, domain.ErrSchemaNotFound)

	_, err = c.Put(ctx, "bad name!", `{}`)
	assert.ErrorIs(t, err, domain.ErrSchemaFormat)

	_, err = c.Put(ctx, "bad", `{"!a": []}`)
	assert.ErrorIs(t, err, domain.ErrSchemaFormat)

	_, err = c.Put(ctx, "iban", `{"!iban": "iban"}`)
	require.NoError(t, err, "unknown datatypes are accepted at storage time")

	_, err = c.Validate(ctx, "iban", `{"iban": "x"}`)
	assert.ErrorIs(t, err, domain.ErrUnknownDatatype)
	assert.Contains(t, err.Error(), `schema "iban"`)

	_, err = c.Validate(ctx, "iban", `[]`)
	assert.ErrorIs(t, err, domain.ErrUnknownDatatype, "configuration errors come before document errors")
}

func TestCatalog_MaxDepth(t *testing.T) {
	ctx := context.Background()
	deep := `{"a": {"b": {"c": {"!d": "number"}}}}`
	node, err := schema.ParseJSON([]byte(deep))
	require.NoError(t, err, "within the default limit")

	c := catalog.New(memory.NewStore(), catalog.WithMaxDepth(2))

	tests := []struct {
		name string
		run  func() error
	}{
		{"put text", func() error { _, err := c.Put(ctx, "deep", deep); return err }},
		{"put parsed node", func() error { _, err := c.Put(ctx, "deep", node); return err }},
		{"parse json", func() error { _, err := c.Parse([]byte(deep), schema.FormatJSON); return err }},
		{"parse yaml", func() error { _, err := c.Parse([]byte("a:\n  b:\n    c: number\n"), schema.FormatYAML); return err }},
		{"validate inline node", func() error { _, err := c.ValidateWith(ctx, node, `{}`); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), domain.ErrSchemaTooDeep)
		})
	}

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "rejected schemas are not stored")

	_, err = c.Put(ctx, "shallow", `{"a": {"!b": "number"}}`)
	assert.NoError(t, err)
}

func TestCatalog_SkipAbsentBranches(t *testing.T) {
	ctx := context.Background()
	src := `{"opt": {"!numeric": "number"}}`

	tests := []struct {
		name string
		opts []catalog.Option
		want []string
	}{
		{"descends by default", nil, []string{"opt.numeric not found"}},
		{"skips when configured", []catalog.Option{catalog.WithSkipAbsentBranches(true)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog.New(memory.NewStore(), tt.opts...)
			_, err := c.Put(ctx, "opt", src)
			require.NoError(t, err)

			report, err := c.Validate(ctx, "opt", `{}`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Errors)
			assert.Equal(t, len(tt.want) == 0, report.OK)
		})
	}
}

func TestCatalog_SharedRegistry(t *testing.T) {
	ctx := context.Background()
	reg := rules.New()
	c := catalog.New(memory.NewStore(), catalog.WithRegistry(reg))

	_, err := c.Put(ctx, "limit", map[string]any{"!amount": "greater_than_10"})
	require.NoError(t, err)

	require.NoError(t, reg.RegisterFunc("greater_than_10", rules.GreaterThanFromName))

	report, err := c.Validate(ctx, "limit", `{"amount": 5}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount is not well formatted"}, report.Errors)

	assert.Contains(t, c.Rules(), rules.Info{Name: "greater_than_10", Kind: "predicate"})
}

func TestCatalog_Hooks(t *testing.T) {
	ctx := context.Background()
	var seen []*domain.Report

	c := catalog.New(memory.NewStore(), catalog.WithHooks(domain.EvaluationHooks{
		OnEvaluate: func(e *domain.EvaluationEvent) { seen = append(seen, e.Report) },
	}))
	_, err := c.Put(ctx, "s", `{"!a": "string"}`)
	require.NoError(t, err)

	_, err = c.Validate(ctx, "s", `{}`)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.False(t, seen[0].OK)
}

func TestCatalog_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	c := catalog.New(memory.NewStore())

	for _, name := range []string{"b", "a"} {
		_, err := c.Put(ctx, name, `{"x": "string"}`)
		require.NoError(t, err)
	}

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, c.Delete(ctx, "a"))
	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSchemaNotFound)
}

func TestCatalog_Seed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files := file.New(dir)

	c := catalog.New(files)
	_, err := c.Put(ctx, "payment", `{"!amount": "number"}`)
	require.NoError(t, err)

	mem := catalog.New(memory.NewStore())
	n, err := mem.Seed(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	report, err := mem.Validate(ctx, "payment", `{"amount": 3}`)
	require.NoError(t, err)
	assert.True(t, report.OK)
}

func TestCatalog_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := catalog.New(memory.NewStore())
	node, err := c.Put(context.Background(), "s", `{"a": "string"}`)
	require.NoError(t, err)

	_, err = c.ValidateWith(ctx, node, `{}`)
	assert.ErrorIs(t, err, context.Canceled)
}
