package rules

import (
	"fmt"
	"regexp"

	"github.com/aretw0/jsonpattern/pkg/domain"
)

// Kind tags the variant held by a Rule.
type Kind int

const (
	KindPattern Kind = iota + 1
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindPredicate:
		return "predicate"
	default:
		return "invalid"
	}
}

// Predicate decides whether value satisfies the datatype it was registered under.
// The datatype name lets one predicate serve several names (e.g. thresholds).
type Predicate func(value any, datatype string) bool

// Rule is a tagged variant: a compiled pattern or a predicate.
// The zero Rule is invalid and rejected by the Registry.
type Rule struct {
	kind      Kind
	source    string
	pattern   *regexp.Regexp
	predicate Predicate
}

// Pattern compiles expr into a pattern rule.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern %q: %v", domain.ErrInvalidRule, expr, err)
	}
	return Rule{kind: KindPattern, source: expr, pattern: re}, nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr string) Rule {
	r, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Func wraps a predicate into a rule.
func Func(fn Predicate) Rule {
	if fn == nil {
		return Rule{}
	}
	return Rule{kind: KindPredicate, predicate: fn}
}

// Described attaches a human-readable source to a predicate rule, shown by listings.
func (r Rule) Described(source string) Rule {
	r.source = source
	return r
}

// Kind returns the variant tag.
func (r Rule) Kind() Kind { return r.kind }

// Source returns the pattern text, or the description of a predicate.
func (r Rule) Source() string { return r.source }

// Valid reports whether the rule carries a pattern or a predicate.
func (r Rule) Valid() bool {
	switch r.kind {
	case KindPattern:
		return r.pattern != nil
	case KindPredicate:
		return r.predicate != nil
	default:
		return false
	}
}

// Match applies the rule to value. Patterns use unanchored search semantics against
// Text(value): "(.)+" accepts any value with at least one character.
func (r Rule) Match(datatype string, value any) bool {
	switch r.kind {
	case KindPredicate:
		return r.predicate(value, datatype)
	case KindPattern:
		return r.pattern.MatchString(Text(value))
	default:
		return false
	}
}
