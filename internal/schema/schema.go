package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSchemaUnavailable is returned when the feature list cannot be loaded.
// Callers treat it as fatal: no predictions are served without a schema.
var ErrSchemaUnavailable = errors.New("schema unavailable")

// Schema is the ordered list of feature names a model was fit against.
// It is immutable once built and safe to share between requests.
type Schema struct {
	names []string
	index map[string]int
}

// Load reads a JSON array of feature names from path.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSchemaUnavailable, path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON array of feature names.
func Parse(r io.Reader) (*Schema, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("%w: decode feature list: %v", ErrSchemaUnavailable, err)
	}
	return New(names)
}

// New builds a schema from names, keeping the first occurrence of any
// duplicate. An empty list or a blank name is rejected.
func New(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty feature list", ErrSchemaUnavailable)
	}

	s := &Schema{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("%w: blank feature name at position %d", ErrSchemaUnavailable, i)
		}
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s, nil
}

// Len is the width of the feature vector.
func (s *Schema) Len() int {
	return len(s.names)
}

// Names returns a copy of the feature names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Name returns the feature at position i.
func (s *Schema) Name(i int) string {
	return s.names[i]
}

// IndexOf reports the column position of name.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Equal reports whether both schemas list the same names in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.names) != len(other.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return false
		}
	}
	return true
}
