package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the conventional name of the feature list.
const DefaultFileName = "feature_list.json"

// DefaultExpectedTotal is the feature count used for progress percentages.
const DefaultExpectedTotal = 200

// Collection is the ordered feature list. A record's position is its identity.
type Collection []*Record

// Len returns the number of records.
func (c Collection) Len() int {
	return len(c)
}

// At returns the record at index and whether index is in range.
func (c Collection) At(index int) (*Record, bool) {
	if index < 0 || index >= len(c) {
		return nil, false
	}
	return c[index], true
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// IndexOf returns the index of the first record whose description equals
// description exactly, or -1.
func (c Collection) IndexOf(description string) int {
	for i, r := range c {
		if r.Description() == description {
			return i
		}
	}
	return -1
}

// LoadError reports that the feature list could not be read or parsed.
// No mutation has happened when it is returned.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading feature list %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// StoreError reports that the updated feature list could not be written.
// The on-disk copy is in whatever state the failed write left it.
type StoreError struct {
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("writing feature list %s: %v", e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Load reads the whole feature list from path.
func Load(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	c, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return c, nil
}

// Decode parses a JSON array of feature records.
func Decode(data []byte) (Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("feature list must be a JSON array")
	}

	var c Collection
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, fmt.Errorf("parsing feature list: %w", err)
	}
	for i, r := range c {
		// a literal null element has no fields to keep
		if r == nil {
			return nil, fmt.Errorf("feature %d is null", i)
		}
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// Encode serializes the collection with 2-space indentation, without HTML
// escaping and without a trailing newline.
func Encode(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshaling feature list: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// StoreOptions controls how Store persists the collection.
type StoreOptions struct {
	// Atomic writes to a temp file and renames it over path.
	Atomic bool
}

// Store writes the whole collection to path, overwriting it.
func Store(path string, c Collection, opts StoreOptions) error {
	data, err := Encode(c)
	if err != nil {
		return &StoreError{Path: path, Err: err}
	}

	if !opts.Atomic {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return &StoreError{Path: path, Err: err}
		}
		return nil
	}

	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return &StoreError{Path: path, Err: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &StoreError{Path: path, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}
