package jsonpattern

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/jsonpattern/internal/runtime"
	"github.com/aretw0/jsonpattern/pkg/document"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/rules"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/google/uuid"
)

// Matcher evaluates documents against a schema and keeps the outcome of the last evaluation.
//
// Errors and OK always describe the most recent call to Evaluate. Check runs the same
// algorithm without touching that state and is safe for concurrent use.
type Matcher struct {
	mu         sync.RWMutex
	schema     *schema.Node
	violations []domain.Violation
	lastErr    error

	registry   *rules.Registry
	logger     *slog.Logger
	hooks      domain.EvaluationHooks
	maxDepth   int
	skipAbsent bool

	// Name labels the schema in reports and logs. Empty for ad hoc schemas.
	Name string
}

// New creates a matcher. The schema may be nil and set later with SetSchema.
func New(src any, opts ...Option) (*Matcher, error) {
	m := &Matcher{violations: []domain.Violation{}}
	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = rules.New()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.Name != "" {
		m.logger = m.logger.With("schema", m.Name)
	}

	if src != nil {
		if err := m.SetSchema(src); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetSchema replaces the schema. Accepted forms are *schema.Node, map[string]any,
// map[string]string, and JSON text as string, []byte or json.RawMessage.
// On failure the previous schema stays.
func (m *Matcher) SetSchema(src any) error {
	node, err := ParseSchema(src, schema.WithMaxDepth(m.maxDepth))
	if err != nil {
		m.logger.Warn("schema rejected", "err", err)
		return err
	}

	m.mu.Lock()
	m.schema = node
	m.mu.Unlock()

	m.logger.Debug("schema set", "fields", node.Len(), "depth", node.Depth())
	return nil
}

// ParseSchema converts the accepted schema forms into a parsed schema:
// *schema.Node, map[string]any, map[string]string, and JSON text as string,
// []byte or json.RawMessage. The depth limit applies to every form.
func ParseSchema(src any, opts ...schema.Option) (*schema.Node, error) {
	switch s := src.(type) {
	case *schema.Node:
		if s == nil {
			return nil, fmt.Errorf("%w: nil schema", domain.ErrSchemaFormat)
		}
		if err := schema.CheckDepth(s, opts...); err != nil {
			return nil, err
		}
		return s, nil
	case map[string]any:
		return schema.FromMap(s, opts...)
	case map[string]string:
		if s == nil {
			return nil, fmt.Errorf("%w: nil schema", domain.ErrSchemaFormat)
		}
		flat := make(map[string]any, len(s))
		for k, dt := range s {
			flat[k] = dt
		}
		return schema.FromMap(flat, opts...)
	case string:
		return schema.ParseJSON([]byte(s), opts...)
	case []byte:
		return schema.ParseJSON(s, opts...)
	case json.RawMessage:
		return schema.ParseJSON(s, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported schema type %T", domain.ErrSchemaFormat, src)
	}
}

// Schema returns the current schema, or nil.
func (m *Matcher) Schema() *schema.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema
}

// Registry returns the registry used by this matcher.
func (m *Matcher) Registry() *rules.Registry {
	return m.registry
}

// Register adds or replaces a datatype rule. It applies from the next evaluation on.
func (m *Matcher) Register(name string, rule rules.Rule) error {
	return m.registry.Register(name, rule)
}

// Evaluate matches doc against the current schema and stores the violations.
// A failed call leaves the error sequence empty and OK false.
// Only configuration and document-format problems are returned as errors.
// Hooks run after the outcome is stored, so they may read the matcher.
func (m *Matcher) Evaluate(doc any) error {
	report, err := m.run(m.Schema(), doc)

	m.mu.Lock()
	m.violations = []domain.Violation{}
	m.lastErr = err
	if err == nil {
		m.violations = report.Violations
	}
	m.mu.Unlock()

	m.notify(report, err)
	return err
}

// Check evaluates doc against the current schema and returns a report.
// The matcher's error sequence is not modified.
func (m *Matcher) Check(doc any) (*domain.Report, error) {
	report, err := m.run(m.Schema(), doc)
	m.notify(report, err)
	return report, err
}

func (m *Matcher) run(node *schema.Node, doc any) (*domain.Report, error) {
	start := time.Now()

	if node == nil {
		return nil, m.fail(domain.ErrNoSchema)
	}

	// Configuration errors take precedence over document errors.
	reg := m.registry.Snapshot()
	if err := runtime.Preflight(node, reg); err != nil {
		return nil, m.fail(err)
	}

	data, err := document.From(doc)
	if err != nil {
		return nil, m.fail(err)
	}

	violations, err := runtime.Walk(node, data, reg, runtime.Options{
		SkipAbsentBranches: m.skipAbsent,
	})
	if err != nil {
		return nil, m.fail(err)
	}

	report := domain.NewReport(violations)
	report.ID = uuid.NewString()
	report.Schema = m.Name
	report.Duration = time.Since(start)

	m.logger.Debug("document evaluated",
		"report_id", report.ID,
		"ok", report.OK,
		"violations", len(report.Violations),
		"duration", report.Duration,
	)
	return report, nil
}

func (m *Matcher) fail(err error) error {
	if domain.IsConfigurationError(err) {
		m.logger.Warn("evaluation aborted", "err", err)
	} else {
		m.logger.Debug("evaluation rejected", "err", err)
	}
	return err
}

// notify fires the hooks. It must not be called with m.mu held.
func (m *Matcher) notify(report *domain.Report, err error) {
	if err != nil {
		if m.hooks.OnFailure != nil {
			m.hooks.OnFailure(&domain.FailureEvent{
				Timestamp: time.Now(),
				Err:       err,
			})
		}
		return
	}
	if m.hooks.OnEvaluate != nil {
		m.hooks.OnEvaluate(&domain.EvaluationEvent{
			Timestamp: time.Now(),
			Report:    report,
		})
	}
}

// Errors returns the messages of the last evaluation, in schema order.
func (m *Matcher) Errors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Messages(m.violations)
}

// Violations returns the structured violations of the last evaluation.
func (m *Matcher) Violations() []domain.Violation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Violation, len(m.violations))
	copy(out, m.violations)
	return out
}

// OK reports whether a schema is set, the last evaluation did not fail, and the
// error sequence is empty. A matcher without a schema is never OK.
func (m *Matcher) OK() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema != nil && m.lastErr == nil && len(m.violations) == 0
}

// Err returns the error of the last evaluation, or nil.
func (m *Matcher) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}
