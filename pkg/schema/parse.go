package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies a textual schema encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type options struct {
	maxDepth int
}

// Option configures parsing.
type Option func(*options)

// WithMaxDepth limits how deep schemas may nest. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse decodes a schema in the given format.
func Parse(data []byte, format Format, opts ...Option) (*Node, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data, opts...)
	case FormatJSON, "":
		return ParseJSON(data, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrSchemaFormat, format)
	}
}

// ParseJSON decodes a JSON object into a schema, keeping the authoring order of keys.
func ParseJSON(data []byte, opts ...Option) (*Node, error) {
	o := newOptions(opts)
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaFormat, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: root must be an object", domain.ErrSchemaFormat)
	}

	node, err := decodeJSONObject(dec, nil, 1, o)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after schema", domain.ErrSchemaFormat)
	}
	return node, nil
}

func decodeJSONObject(dec *json.Decoder, path []string, depth int, o options) (*Node, error) {
	if depth > o.maxDepth {
		return nil, tooDeep(path, o.maxDepth)
	}

	b := newBuilder(path)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, b.fail(err.Error())
		}
		key, _ := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return nil, b.fail(err.Error())
		}

		switch v := tok.(type) {
		case string:
			err = b.leaf(key, v)
		case json.Delim:
			if v != '{' {
				return nil, b.failField(key, "expected datatype name or object, got array")
			}
			var child *Node
			child, err = decodeJSONObject(dec, b.childPath(key), depth+1, o)
			if err != nil {
				return nil, err
			}
			err = b.nested(key, child)
		default:
			err = b.failField(key, fmt.Sprintf("expected datatype name or object, got %s", jsonKind(v)))
		}
		if err != nil {
			return nil, err
		}
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, b.fail(err.Error())
	}
	return b.node, nil
}

func jsonKind(tok json.Token) string {
	switch tok.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", tok)
	}
}

// ParseYAML decodes a YAML mapping into a schema, keeping the authoring order of keys.
// Required keys must be quoted ("!email": email) since a bare ! starts a YAML tag.
func ParseYAML(data []byte, opts ...Option) (*Node, error) {
	o := newOptions(opts)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaFormat, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", domain.ErrSchemaFormat)
		}
		root = root.Content[0]
	}
	if resolveAlias(root).Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root must be a mapping", domain.ErrSchemaFormat)
	}

	return decodeYAMLMapping(resolveAlias(root), nil, 1, o)
}

func decodeYAMLMapping(n *yaml.Node, path []string, depth int, o options) (*Node, error) {
	if depth > o.maxDepth {
		return nil, tooDeep(path, o.maxDepth)
	}

	b := newBuilder(path)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		value := resolveAlias(n.Content[i+1])

		var err error
		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag != "!!str" {
				return nil, b.failField(key, fmt.Sprintf("expected datatype name or mapping, got %s", value.Tag))
			}
			err = b.leaf(key, value.Value)
		case yaml.MappingNode:
			var child *Node
			child, err = decodeYAMLMapping(value, b.childPath(key), depth+1, o)
			if err != nil {
				return nil, err
			}
			err = b.nested(key, child)
		default:
			err = b.failField(key, "expected datatype name or mapping")
		}
		if err != nil {
			return nil, err
		}
	}
	return b.node, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// FromMap builds a schema from an already decoded tree.
// Go maps carry no order, so entries are sorted by pattern key.
func FromMap(m map[string]any, opts ...Option) (*Node, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: schema is nil", domain.ErrSchemaFormat)
	}
	return fromMap(m, nil, 1, newOptions(opts))
}

// CheckDepth applies the nesting limit of the given options to an already built schema.
func CheckDepth(n *Node, opts ...Option) error {
	return checkDepth(n, nil, 1, newOptions(opts).maxDepth)
}

func checkDepth(n *Node, path []string, depth, limit int) error {
	if n == nil {
		return nil
	}
	if depth > limit {
		return tooDeep(path, limit)
	}
	for _, e := range n.Entries {
		if e.Kind != KindNested {
			continue
		}
		child := append(append([]string(nil), path...), e.Field)
		if err := checkDepth(e.Nested, child, depth+1, limit); err != nil {
			return err
		}
	}
	return nil
}

func fromMap(m map[string]any, path []string, depth int, o options) (*Node, error) {
	if depth > o.maxDepth {
		return nil, tooDeep(path, o.maxDepth)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := newBuilder(path)
	for _, key := range keys {
		var err error
		switch v := m[key].(type) {
		case string:
			err = b.leaf(key, v)
		case map[string]any:
			var child *Node
			child, err = fromMap(v, b.childPath(key), depth+1, o)
			if err != nil {
				return nil, err
			}
			err = b.nested(key, child)
		case map[string]string:
			nested := make(map[string]any, len(v))
			for k, dt := range v {
				nested[k] = dt
			}
			var child *Node
			child, err = fromMap(nested, b.childPath(key), depth+1, o)
			if err != nil {
				return nil, err
			}
			err = b.nested(key, child)
		default:
			err = b.failField(key, fmt.Sprintf("expected datatype name or object, got %T", v))
		}
		if err != nil {
			return nil, err
		}
	}
	return b.node, nil
}

// builder accumulates entries for one level and enforces field uniqueness.
type builder struct {
	path []string
	node *Node
	seen map[string]bool
}

func newBuilder(path []string) *builder {
	return &builder{path: path, node: &Node{}, seen: make(map[string]bool)}
}

func (b *builder) childPath(key string) []string {
	field, _ := ParseKey(key)
	return append(append([]string(nil), b.path...), field)
}

func (b *builder) check(key string) error {
	field, _ := ParseKey(key)
	if field == "" {
		return b.fail(fmt.Sprintf("empty field name in key %q", key))
	}
	if b.seen[field] {
		return b.failField(key, "duplicate field")
	}
	b.seen[field] = true
	return nil
}

func (b *builder) leaf(key, datatype string) error {
	if err := b.check(key); err != nil {
		return err
	}
	if datatype == "" {
		return b.failField(key, "empty datatype")
	}
	b.node.Entries = append(b.node.Entries, Leaf(key, datatype))
	return nil
}

func (b *builder) nested(key string, child *Node) error {
	if err := b.check(key); err != nil {
		return err
	}
	b.node.Entries = append(b.node.Entries, Nested(key, child))
	return nil
}

func (b *builder) fail(msg string) error {
	if len(b.path) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSchemaFormat, msg)
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrSchemaFormat, strings.Join(b.path, "."), msg)
}

func (b *builder) failField(key, msg string) error {
	field, _ := ParseKey(key)
	path := append(append([]string(nil), b.path...), field)
	return fmt.Errorf("%w: %s: %s", domain.ErrSchemaFormat, strings.Join(path, "."), msg)
}

func tooDeep(path []string, limit int) error {
	return fmt.Errorf("%w: %s nests more than %d levels", domain.ErrSchemaTooDeep, strings.Join(path, "."), limit)
}
