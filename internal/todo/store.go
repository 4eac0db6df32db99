package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var bundledSchema []byte

const bundledSchemaURL = "tasks.schema.json"

// BundledSchema returns the embedded JSON Schema for the store file.
func BundledSchema() []byte {
	out := make([]byte, len(bundledSchema))
	copy(out, bundledSchema)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StoreOptions controls how a Store validates what it loads.
type StoreOptions struct {
	// SchemaPath is the path to an external JSON Schema file.
	// If empty, the embedded schema is used.
	SchemaPath string
}

// Store persists a List as a JSON array in a single file.
// Every Save rewrites the whole file.
type Store struct {
	path       string
	schemaPath string
}

// NewStore creates a store for the file at path.
func NewStore(path string, opts StoreOptions) *Store {
	return &Store{path: path, schemaPath: opts.SchemaPath}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and parses the store file.
// A missing file yields an empty list.
func (s *Store) Load() (*List, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewList(nil), nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, err := s.Decode(data)
	if err != nil {
		return nil, err
	}
	return NewList(tasks), nil
}

// Decode parses and validates store file contents.
func (s *Store) Decode(data []byte) ([]Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	if errs := s.validate(doc); len(errs) > 0 {
		return nil, fmt.Errorf("validate task file: %w", errs[0])
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	return tasks, nil
}

// Validate checks store file contents against the schema and returns every
// violation found.
func (s *Store) Validate(data []byte) []error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{fmt.Errorf("parse task file: %w", err)}
	}
	return s.validate(doc)
}

// Save writes the list to the store file with 2-space indentation.
func (s *Store) Save(l *List) error {
	tasks := l.Tasks()
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task file directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	return nil
}

func (s *Store) validate(doc interface{}) []error {
	schema, err := s.compileSchema()
	if err != nil {
		return []error{err}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func (s *Store) compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if s.schemaPath != "" {
		absPath, err := filepath.Abs(s.schemaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid schema path: %w", err)
		}
		schema, err := compiler.Compile(absPath)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", absPath, err)
		}
		return schema, nil
	}

	if err := compiler.AddResource(bundledSchemaURL, bytes.NewReader(bundledSchema)); err != nil {
		return nil, fmt.Errorf("load bundled schema: %w", err)
	}
	schema, err := compiler.Compile(bundledSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile bundled schema: %w", err)
	}
	return schema, nil
}

func schemaErrors(err error) []error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/1/trangthai" into "[1].trangthai".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
