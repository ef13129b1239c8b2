package ports

import (
	"context"

	"github.com/aretw0/jsonpattern/pkg/schema"
)

// SchemaStore defines the interface for persisting named schemas.
type SchemaStore interface {
	// Save stores the schema under name, replacing any previous version.
	Save(ctx context.Context, name string, node *schema.Node) error

	// Load retrieves the schema stored under name.
	// Returns domain.ErrSchemaNotFound if there is none.
	Load(ctx context.Context, name string) (*schema.Node, error)

	// Delete removes the schema. Deleting a missing schema is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored schema names, sorted.
	List(ctx context.Context) ([]string, error)
}
