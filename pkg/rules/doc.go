// Package rules holds the named datatype rules a schema refers to.
//
// A rule is either a regular expression, searched (not fully matched) in the textual
// form of a value, or a predicate function receiving the raw value and the datatype
// name it was registered under. The Registry starts with the built-in rules and accepts
// new or replacement rules at runtime:
//
//	reg := rules.New()
//	reg.RegisterFunc("greater_than_10", rules.GreaterThanFromName)
//	reg.RegisterExpression("positive", "float(value) > 0")
//
//	ok, err := reg.Validate("email", "test@test.com")
//
// Validate returns domain.ErrUnknownDatatype for names the registry does not know;
// a schema referencing such a name is a configuration defect.
package rules
