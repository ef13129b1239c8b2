package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/schema"
)

// extensions are tried in order when loading; schemas are always written as JSON.
var extensions = []string{".json", ".yaml", ".yml"}

// Store implements ports.SchemaStore on a directory of schema files.
// The file "payment.yaml" holds the schema named "payment".
type Store struct {
	BasePath string
	opts     []schema.Option
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to "schemas".
func New(basePath string, opts ...schema.Option) *Store {
	if basePath == "" {
		basePath = "schemas"
	}
	return &Store{BasePath: basePath, opts: opts}
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid schema name %q", name)
	}
	return nil
}

// Save writes the schema as JSON atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, node *schema.Node) error {
	if err := checkName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	data, err := node.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// A YAML version of the same schema would shadow the new file on Load.
	for _, ext := range extensions[1:] {
		if err := os.Remove(filepath.Join(s.BasePath, name+ext)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove previous schema file: %w", err)
		}
	}

	// On Windows, os.Rename fails if dest exists.
	destPath := filepath.Join(s.BasePath, name+".json")
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the first of name.json, name.yaml and name.yml that exists.
func (s *Store) Load(ctx context.Context, name string) (*schema.Node, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}

		node, err := schema.Parse(data, schema.FormatFromPath(path), s.opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return node, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrSchemaNotFound, name)
}

// Delete removes every file holding the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete schema file: %w", err)
		}
	}
	return nil
}

// List returns the names of the schema files in the directory, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !isSchemaExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isSchemaExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
