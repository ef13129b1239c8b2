package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/aretw0/jsonpattern"
	"github.com/aretw0/jsonpattern/internal/logging"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Catalog keeps named schemas in a SchemaStore and evaluates documents against them.
// All evaluations share one registry. Safe for concurrent use.
type Catalog struct {
	store      ports.SchemaStore
	registry   *rules.Registry
	logger     *slog.Logger
	hooks      domain.EvaluationHooks
	maxDepth   int
	skipAbsent bool
}

// Option configures the Catalog.
type Option func(*Catalog)

// WithRegistry sets the registry used by every evaluation.
func WithRegistry(reg *rules.Registry) Option {
	return func(c *Catalog) {
		c.registry = reg
	}
}

// WithLogger configures a logger for the Catalog.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks for every evaluation.
func WithHooks(hooks domain.EvaluationHooks) Option {
	return func(c *Catalog) {
		c.hooks = hooks
	}
}

// WithMaxDepth limits how deep submitted and inline schemas may nest.
func WithMaxDepth(depth int) Option {
	return func(c *Catalog) {
		c.maxDepth = depth
	}
}

// WithSkipAbsentBranches is passed on to every matcher.
func WithSkipAbsentBranches(enabled bool) Option {
	return func(c *Catalog) {
		c.skipAbsent = enabled
	}
}

// New creates a catalog on top of store.
func New(store ports.SchemaStore, opts ...Option) *Catalog {
	c := &Catalog{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = rules.New()
	}
	return c
}

// ValidName reports whether name can be used as a schema name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Registry returns the shared registry.
func (c *Catalog) Registry() *rules.Registry {
	return c.registry
}

// Rules lists the registered datatype rules.
func (c *Catalog) Rules() []rules.Info {
	return c.registry.Infos()
}

// Parse decodes schema text with the catalog's depth limit.
func (c *Catalog) Parse(data []byte, format schema.Format) (*schema.Node, error) {
	return schema.Parse(data, format, schema.WithMaxDepth(c.maxDepth))
}

// Put parses src and stores it under name. See jsonpattern.ParseSchema for accepted forms.
// Datatypes are resolved when documents are evaluated, so rules may be registered later.
// The depth limit applies to pre-built nodes as well.
func (c *Catalog) Put(ctx context.Context, name string, src any) (*schema.Node, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: invalid schema name %q", domain.ErrSchemaFormat, name)
	}

	node, err := jsonpattern.ParseSchema(src, schema.WithMaxDepth(c.maxDepth))
	if err != nil {
		return nil, err
	}

	if err := c.store.Save(ctx, name, node); err != nil {
		return nil, fmt.Errorf("failed to save schema %q: %w", name, err)
	}

	c.logger.Info("schema stored", "schema", name, "fields", node.Len())
	return node, nil
}

// Get returns the schema stored under name.
func (c *Catalog) Get(ctx context.Context, name string) (*schema.Node, error) {
	return c.store.Load(ctx, name)
}

// Delete removes the schema stored under name.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete schema %q: %w", name, err)
	}
	c.logger.Info("schema deleted", "schema", name)
	return nil
}

// List returns the stored schema names.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

// Validate evaluates doc against the schema stored under name.
func (c *Catalog) Validate(ctx context.Context, name string, doc any) (*domain.Report, error) {
	node, err := c.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	report, err := c.evaluate(ctx, name, node, doc)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	return report, nil
}

// ValidateWith evaluates doc against an inline schema. The depth limit applies.
func (c *Catalog) ValidateWith(ctx context.Context, node *schema.Node, doc any) (*domain.Report, error) {
	return c.evaluate(ctx, "", node, doc)
}

func (c *Catalog) evaluate(ctx context.Context, name string, node *schema.Node, doc any) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := jsonpattern.New(node,
		jsonpattern.WithName(name),
		jsonpattern.WithMaxDepth(c.maxDepth),
		jsonpattern.WithRegistry(c.registry),
		jsonpattern.WithLogger(c.logger),
		jsonpattern.WithHooks(c.hooks),
		jsonpattern.WithSkipAbsentBranches(c.skipAbsent),
	)
	if err != nil {
		return nil, err
	}
	return m.Check(doc)
}

// Seed copies every schema of src into the catalog's store.
func (c *Catalog) Seed(ctx context.Context, src ports.SchemaStore) (int, error) {
	names, err := src.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list seed schemas: %w", err)
	}

	for _, name := range names {
		node, err := src.Load(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := schema.CheckDepth(node, schema.WithMaxDepth(c.maxDepth)); err != nil {
			return 0, fmt.Errorf("seed schema %q: %w", name, err)
		}
		if err := c.store.Save(ctx, name, node); err != nil {
			return 0, fmt.Errorf("failed to seed schema %q: %w", name, err)
		}
	}

	c.logger.Info("catalog seeded", "schemas", len(names))
	return len(names), nil
}
