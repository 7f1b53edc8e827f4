package encoder

import (
	"fmt"

	"github.com/Skufu/HeartRisk/internal/schema"
)

// Record is one encoded row: a dense vector indexed by its schema.
type Record struct {
	schema *schema.Schema
	values []float64
}

// Feature is a single named column value.
type Feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (r *Record) Len() int {
	return len(r.values)
}

func (r *Record) Names() []string {
	return r.schema.Names()
}

// Value looks up a column by name.
func (r *Record) Value(name string) (float64, bool) {
	i, ok := r.schema.IndexOf(name)
	if !ok {
		return 0, false
	}
	return r.values[i], true
}

// Values returns a copy of the row in schema order.
func (r *Record) Values() []float64 {
	return append([]float64(nil), r.values...)
}

// Features returns the row as ordered name/value pairs.
func (r *Record) Features() []Feature {
	out := make([]Feature, len(r.values))
	for i, v := range r.values {
		out[i] = Feature{Name: r.schema.Name(i), Value: v}
	}
	return out
}

// Align selects the record's columns in target order. Every target column
// must exist in the record; anything else is ErrMissingSchemaColumn.
func (r *Record) Align(target *schema.Schema) ([]float64, error) {
	if target.Equal(r.schema) {
		return r.Values(), nil
	}
	out := make([]float64, target.Len())
	for i := 0; i < target.Len(); i++ {
		name := target.Name(i)
		j, ok := r.schema.IndexOf(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSchemaColumn, name)
		}
		out[i] = r.values[j]
	}
	return out, nil
}
