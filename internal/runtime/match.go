package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

// Validator applies named datatype rules. *rules.Registry satisfies it.
type Validator interface {
	Has(datatype string) bool
	Validate(datatype string, value any) (bool, error)
}

// Options tunes the matching walk.
type Options struct {
	// SkipAbsentBranches makes an absent optional nested entry succeed as a whole.
	// Otherwise the walk recurses with an empty object and reports its required
	// children as not found.
	SkipAbsentBranches bool
}

// Preflight checks that every datatype referenced by the schema is known.
// Matching never starts against a schema that would fail halfway through.
func Preflight(root *schema.Node, v Validator) error {
	for _, ref := range root.Datatypes() {
		if !v.Has(ref.Datatype) {
			return fmt.Errorf("%w: %q referenced by %s", domain.ErrUnknownDatatype, ref.Datatype, strings.Join(ref.Path, "."))
		}
	}
	return nil
}

// Match walks the schema and the document in lockstep and returns every violation,
// in schema order. Sibling entries are always evaluated, whatever happened before them.
// The returned error is reserved for configuration defects.
func Match(root *schema.Node, doc map[string]any, v Validator, opts Options) ([]domain.Violation, error) {
	if err := Preflight(root, v); err != nil {
		return nil, err
	}
	return Walk(root, doc, v, opts)
}

// Walk is Match without the preflight check. A datatype missing from v aborts the
// walk with the error returned by v.
func Walk(root *schema.Node, doc map[string]any, v Validator, opts Options) ([]domain.Violation, error) {
	w := walker{validator: v, opts: opts, violations: []domain.Violation{}}
	if err := w.match(root, doc, nil); err != nil {
		return nil, err
	}
	return w.violations, nil
}

type walker struct {
	validator  Validator
	opts       Options
	violations []domain.Violation
}

func (w *walker) match(node *schema.Node, data map[string]any, path []string) error {
	for _, entry := range node.Entries {
		fieldPath := append(append(make([]string, 0, len(path)+1), path...), entry.Field)
		value, present := lookup(data, entry.Field)

		// A missing required field is reported once; its content is never checked.
		if entry.Required && !present {
			w.record(fieldPath, domain.ViolationMissing, entry.Datatype)
			continue
		}

		switch entry.Kind {
		case schema.KindNested:
			if !present && w.opts.SkipAbsentBranches {
				continue
			}
			// Non-object values are matched as an empty object.
			child, _ := value.(map[string]any)
			if err := w.match(entry.Nested, child, fieldPath); err != nil {
				return err
			}

		case schema.KindLeaf:
			if !present {
				continue
			}
			ok, err := w.validator.Validate(entry.Datatype, value)
			if err != nil {
				return fmt.Errorf("field %s: %w", strings.Join(fieldPath, "."), err)
			}
			if !ok {
				w.record(fieldPath, domain.ViolationMalformed, entry.Datatype)
			}
		}
	}
	return nil
}

func (w *walker) record(path []string, kind domain.ViolationKind, datatype string) {
	w.violations = append(w.violations, domain.Violation{Path: path, Kind: kind, Datatype: datatype})
}

// lookup reports a field as present unless it is missing or JSON null.
// Empty strings, arrays and objects are present.
func lookup(data map[string]any, field string) (any, bool) {
	value, ok := data[field]
	return value, ok && value != nil
}
