package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/jsonpattern/pkg/domain"
)

// Info describes a registered rule for listings.
type Info struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
}

// Registry manages the available datatype rules.
// Safe for concurrent use: validations share a read lock, registrations take the write lock.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// New creates a registry seeded with the built-in rules.
func New() *Registry {
	return &Registry{rules: builtins()}
}

// NewEmpty creates a registry without any rule.
func NewEmpty() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule under name.
// If a rule with the same name exists, it is overwritten.
func (r *Registry) Register(name string, rule Rule) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidRule)
	}
	if !rule.Valid() {
		return fmt.Errorf("%w: %s: rule must be a pattern or a predicate", domain.ErrInvalidRule, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
	return nil
}

// RegisterPattern compiles expr and registers it under name.
func (r *Registry) RegisterPattern(name, expr string) error {
	rule, err := Pattern(expr)
	if err != nil {
		return err
	}
	return r.Register(name, rule)
}

// RegisterFunc registers a predicate under name.
func (r *Registry) RegisterFunc(name string, fn Predicate) error {
	return r.Register(name, Func(fn))
}

// RegisterExpression compiles an expression rule and registers it under name.
func (r *Registry) RegisterExpression(name, src string) error {
	rule, err := Expression(src)
	if err != nil {
		return err
	}
	return r.Register(name, rule)
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Validate looks up datatype and applies its rule to value.
// Returns domain.ErrUnknownDatatype if the datatype is not registered.
func (r *Registry) Validate(datatype string, value any) (bool, error) {
	rule, ok := r.Lookup(datatype)
	if !ok {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownDatatype, datatype)
	}
	return rule.Match(datatype, value), nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos describes every registered rule, sorted by name.
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.rules))
	for name, rule := range r.rules {
		infos = append(infos, Info{Name: name, Kind: rule.Kind().String(), Source: rule.Source()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Snapshot returns an independent copy of the registry.
// Later registrations on either registry are not visible to the other.
func (r *Registry) Snapshot() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make(map[string]Rule, len(r.rules))
	for name, rule := range r.rules {
		rules[name] = rule
	}
	return &Registry{rules: rules}
}
