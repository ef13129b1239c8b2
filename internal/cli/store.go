package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/jsonpattern/internal/config"
	"github.com/aretw0/jsonpattern/pkg/adapters/file"
	"github.com/aretw0/jsonpattern/pkg/adapters/memory"
	"github.com/aretw0/jsonpattern/pkg/adapters/redis"
	"github.com/aretw0/jsonpattern/pkg/catalog"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/persistence/middleware"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore creates the schema store selected by cfg.Kind, cached when cfg.Cache is set.
// The returned Closer releases the store's connections.
func OpenStore(ctx context.Context, cfg config.StoreConfig, maxDepth int) (ports.SchemaStore, io.Closer, error) {
	store, closer, err := openBackend(ctx, cfg, maxDepth)
	if err != nil || !cfg.Cache {
		return store, closer, err
	}
	return middleware.Chain(store, middleware.NewCacheMiddleware()), closer, nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig, maxDepth int) (ports.SchemaStore, io.Closer, error) {
	switch cfg.Kind {
	case "", "memory":
		return memory.NewStore(), nopCloser{}, nil
	case "file":
		return file.New(cfg.Dir, schema.WithMaxDepth(maxDepth)), nopCloser{}, nil
	case "redis":
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

// BuildCatalog assembles the catalog described by cfg and seeds it from
// cfg.SchemaDir when set.
func BuildCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks domain.EvaluationHooks) (*catalog.Catalog, io.Closer, error) {
	reg, err := BuildRegistry(cfg.Rules)
	if err != nil {
		return nil, nil, err
	}

	store, closer, err := OpenStore(ctx, cfg.Store, cfg.Matcher.MaxDepth)
	if err != nil {
		return nil, nil, err
	}

	c := catalog.New(store,
		catalog.WithRegistry(reg),
		catalog.WithLogger(logger),
		catalog.WithHooks(hooks),
		catalog.WithMaxDepth(cfg.Matcher.MaxDepth),
		catalog.WithSkipAbsentBranches(cfg.Matcher.SkipAbsent),
	)

	if cfg.SchemaDir != "" {
		if _, err := c.Seed(ctx, file.New(cfg.SchemaDir, schema.WithMaxDepth(cfg.Matcher.MaxDepth))); err != nil {
			_ = closer.Close()
			return nil, nil, fmt.Errorf("failed to seed schemas from %s: %w", cfg.SchemaDir, err)
		}
	}

	return c, closer, nil
}
