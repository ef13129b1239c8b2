// Package document turns candidate documents into the untyped trees the matcher walks.
//
// Numbers are decoded as json.Number so that pattern rules see them exactly as they
// were written ("2.50" stays "2.50").
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/jsonpattern/pkg/domain"
)

// Parse decodes JSON text that must hold a single object.
func Parse(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFormat, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after document", domain.ErrDocumentFormat)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %s", domain.ErrDocumentFormat, kindOf(v))
	}
	return obj, nil
}

// From accepts a decoded object, JSON text, or any Go value that marshals to a JSON object.
func From(v any) (map[string]any, error) {
	switch d := v.(type) {
	case map[string]any:
		if d == nil {
			return nil, fmt.Errorf("%w: document is nil", domain.ErrDocumentFormat)
		}
		return d, nil
	case string:
		return Parse([]byte(d))
	case []byte:
		return Parse(d)
	case json.RawMessage:
		return Parse(d)
	case nil:
		return nil, fmt.Errorf("%w: document is nil", domain.ErrDocumentFormat)
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDocumentFormat, err)
		}
		return Parse(data)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
