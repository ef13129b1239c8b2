package dsl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/jsonpattern/pkg/adapters/memory"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

// Builder accumulates the entries of one schema object.
// Errors are collected and returned by Build.
type Builder struct {
	path    []string
	entries []schema.Entry
	seen    map[string]bool
	errs    []error
}

// New creates an empty schema builder.
func New() *Builder {
	return &Builder{seen: make(map[string]bool)}
}

// Required adds a leaf field that must be present.
func (b *Builder) Required(field, datatype string) *Builder {
	return b.leaf(field, true, datatype)
}

// Optional adds a leaf field that is checked only when present.
func (b *Builder) Optional(field, datatype string) *Builder {
	return b.leaf(field, false, datatype)
}

// Object adds a nested object whose entries are declared by fn.
func (b *Builder) Object(field string, required bool, fn func(*Builder)) *Builder {
	if !b.check(field) {
		return b
	}

	child := &Builder{path: append(append([]string(nil), b.path...), field), seen: make(map[string]bool)}
	if fn != nil {
		fn(child)
	}
	b.errs = append(b.errs, child.errs...)

	b.entries = append(b.entries, schema.Entry{
		Field:    field,
		Required: required,
		Kind:     schema.KindNested,
		Nested:   &schema.Node{Entries: child.entries},
	})
	return b
}

// Build returns the schema, or every error found while building it.
func (b *Builder) Build() (*schema.Node, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaFormat, errors.Join(b.errs...))
	}
	return &schema.Node{Entries: append([]schema.Entry(nil), b.entries...)}, nil
}

// BuildStore builds the schema and stores it under name in a new memory store.
func (b *Builder) BuildStore(name string) (*memory.Store, error) {
	node, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewFromSchemas(map[string]*schema.Node{name: node})
}

func (b *Builder) leaf(field string, required bool, datatype string) *Builder {
	if !b.check(field) {
		return b
	}
	if datatype == "" {
		b.errs = append(b.errs, fmt.Errorf("%s: empty datatype", b.name(field)))
		return b
	}

	b.entries = append(b.entries, schema.Entry{Field: field, Required: required, Kind: schema.KindLeaf, Datatype: datatype})
	return b
}

func (b *Builder) check(field string) bool {
	switch {
	case field == "":
		b.errs = append(b.errs, fmt.Errorf("%s: empty field name", b.name("")))
		return false
	case b.seen[field]:
		b.errs = append(b.errs, fmt.Errorf("%s: duplicate field", b.name(field)))
		return false
	}
	b.seen[field] = true
	return true
}

func (b *Builder) name(field string) string {
	path := append(append([]string(nil), b.path...), field)
	if name := strings.Trim(strings.Join(path, "."), "."); name != "" {
		return name
	}
	return "<root>"
}
