package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/jsonpattern/pkg/schema"
)

// Input is one document to validate.
type Input struct {
	Name string
	Data []byte
}

// LoadSchemaFile parses a schema file, choosing JSON or YAML by extension.
func LoadSchemaFile(path string, maxDepth int) (*schema.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	node, err := schema.Parse(data, schema.FormatFromPath(path), schema.WithMaxDepth(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

// ReadInputs reads each path, or stdin when paths is empty or a path is "-".
func ReadInputs(paths []string, stdin io.Reader) ([]Input, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	inputs := make([]Input, 0, len(paths))
	for _, p := range paths {
		var (
			data []byte
			err  error
		)
		if p == "-" {
			data, err = io.ReadAll(stdin)
			p = "<stdin>"
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		inputs = append(inputs, Input{Name: p, Data: data})
	}
	return inputs, nil
}
