package jsonpattern

import (
	"log/slog"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/rules"
)

// Option defines a functional option for configuring the Matcher.
type Option func(*Matcher)

// WithRegistry shares a validator registry between matchers.
// Without it every matcher owns a fresh registry seeded with the built-ins.
func WithRegistry(reg *rules.Registry) Option {
	return func(m *Matcher) {
		m.registry = reg
	}
}

// WithLogger sets a custom structured logger for the matcher.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.EvaluationHooks) Option {
	return func(m *Matcher) {
		m.hooks = hooks
	}
}

// WithMaxDepth limits how deep schemas may nest, pre-built nodes included.
func WithMaxDepth(depth int) Option {
	return func(m *Matcher) {
		m.maxDepth = depth
	}
}

// WithSkipAbsentBranches makes an absent optional nested entry succeed as a
// whole. By default the matcher descends into it with an empty object, so its
// required children are reported as not found.
func WithSkipAbsentBranches(enabled bool) Option {
	return func(m *Matcher) {
		m.skipAbsent = enabled
	}
}

// WithName labels the schema. The name is copied into reports and log records.
func WithName(name string) Option {
	return func(m *Matcher) {
		m.Name = name
	}
}
