package domain

import "strings"

// ViolationKind classifies a soft validation failure.
type ViolationKind string

const (
	// ViolationMissing marks a required field absent from the document.
	ViolationMissing ViolationKind = "missing"
	// ViolationMalformed marks a present value rejected by its datatype rule.
	ViolationMalformed ViolationKind = "malformed"
)

// Violation is one failure found while matching a document against a schema.
type Violation struct {
	// Path is the chain of field names from the document root to the failing field.
	Path     []string      `json:"path"`
	Kind     ViolationKind `json:"kind"`
	Datatype string        `json:"datatype,omitempty"`
}

// Field returns the dotted path of the failing field ("root.child.numeric").
func (v Violation) Field() string {
	return strings.Join(v.Path, ".")
}

// Message renders the violation the way callers display it.
func (v Violation) Message() string {
	switch v.Kind {
	case ViolationMissing:
		return v.Field() + " not found"
	default:
		return v.Field() + " is not well formatted"
	}
}

func (v Violation) String() string { return v.Message() }

// Messages renders a list of violations, preserving order.
func Messages(vs []Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message()
	}
	return out
}
