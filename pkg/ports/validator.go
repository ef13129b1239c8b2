package ports

import (
	"context"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

// Validator evaluates documents. It is the primary interface used by adapters.
type Validator interface {
	// Validate evaluates doc against the schema stored under name.
	// Violations are reported in the returned Report, never as errors.
	Validate(ctx context.Context, name string, doc any) (*domain.Report, error)

	// ValidateWith evaluates doc against an inline schema.
	ValidateWith(ctx context.Context, node *schema.Node, doc any) (*domain.Report, error)
}

// RuleLister exposes the datatype rules a validator can use.
type RuleLister interface {
	Rules() []rules.Info
}
