package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the schema back to its authored form, keeping entry order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range n.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.PatternKey())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		switch e.Kind {
		case KindLeaf:
			value, err := json.Marshal(e.Datatype)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		case KindNested:
			value, err := e.Nested.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		default:
			return nil, fmt.Errorf("field %s: invalid entry kind", e.Field)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the schema with ParseJSON and the default depth limit.
func (n *Node) UnmarshalJSON(data []byte) error {
	if n == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}
