package schema

import "strings"

// RequiredMarker prefixes a pattern key to mark the field as required.
const RequiredMarker = "!"

// DefaultMaxDepth bounds schema nesting when no other limit is configured.
const DefaultMaxDepth = 32

// Kind tags the variant held by an Entry.
type Kind int

const (
	// KindLeaf entries name a datatype rule.
	KindLeaf Kind = iota + 1
	// KindNested entries hold a nested schema node.
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindNested:
		return "nested"
	default:
		return "invalid"
	}
}

// Entry is one parsed pattern key/value pair.
type Entry struct {
	Field    string // Name looked up in documents, marker stripped
	Required bool
	Kind     Kind
	Datatype string // Set for KindLeaf
	Nested   *Node  // Set for KindNested
}

// Node is an ordered set of entries with unique field names.
type Node struct {
	Entries []Entry
}

// ParseKey strips the required marker from a pattern key.
func ParseKey(key string) (field string, required bool) {
	if strings.HasPrefix(key, RequiredMarker) {
		return key[len(RequiredMarker):], true
	}
	return key, false
}

// Leaf builds a leaf entry from a pattern key.
func Leaf(key, datatype string) Entry {
	field, required := ParseKey(key)
	return Entry{Field: field, Required: required, Kind: KindLeaf, Datatype: datatype}
}

// Nested builds a nested entry from a pattern key.
func Nested(key string, node *Node) Entry {
	field, required := ParseKey(key)
	return Entry{Field: field, Required: required, Kind: KindNested, Nested: node}
}

// PatternKey returns the key as it is authored, marker included.
func (e Entry) PatternKey() string {
	if e.Required {
		return RequiredMarker + e.Field
	}
	return e.Field
}

// Len returns the number of entries at this level.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Entries)
}

// Depth returns the number of nested levels, counting this one.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, e := range n.Entries {
		if e.Kind == KindNested {
			if d := e.Nested.Depth(); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

// DatatypeRef is a leaf datatype together with the path of the field using it.
type DatatypeRef struct {
	Path     []string
	Datatype string
}

// Datatypes lists every leaf datatype reference, in schema order.
func (n *Node) Datatypes() []DatatypeRef {
	var refs []DatatypeRef
	n.collect(nil, &refs)
	return refs
}

func (n *Node) collect(prefix []string, refs *[]DatatypeRef) {
	if n == nil {
		return
	}
	for _, e := range n.Entries {
		path := append(append([]string(nil), prefix...), e.Field)
		switch e.Kind {
		case KindLeaf:
			*refs = append(*refs, DatatypeRef{Path: path, Datatype: e.Datatype})
		case KindNested:
			e.Nested.collect(path, refs)
		}
	}
}

// Clone returns a deep copy of the schema.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{}
	if n.Entries != nil {
		out.Entries = make([]Entry, len(n.Entries))
	}
	for i, e := range n.Entries {
		e.Nested = e.Nested.Clone()
		out.Entries[i] = e
	}
	return out
}
