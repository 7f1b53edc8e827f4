package encoder

import (
	"errors"
	"fmt"

	"github.com/Skufu/HeartRisk/internal/schema"
)

// ErrMissingSchemaColumn means a record was asked for a column it does not
// carry. It points at a schema/encoder version mismatch, never at user input.
var ErrMissingSchemaColumn = errors.New("missing schema column")

type numericField struct {
	column string
	value  func(PatientInput) float64
}

// categoricalField describes one form selection and its vocabulary.
// Paired fields write both the positive and the negative indicator.
type categoricalField struct {
	name       string
	categories []string
	value      func(PatientInput) string
	positive   string
	negative   string
}

func (f categoricalField) paired() bool {
	return f.positive != ""
}

var numericFields = []numericField{
	{column: "id", value: func(PatientInput) float64 { return 0 }},
	{column: "age", value: func(p PatientInput) float64 { return p.Age }},
	{column: "trestbps", value: func(p PatientInput) float64 { return p.Trestbps }},
	{column: "chol", value: func(p PatientInput) float64 { return p.Chol }},
	{column: "thalch", value: func(p PatientInput) float64 { return p.Thalach }},
	{column: "oldpeak", value: func(p PatientInput) float64 { return p.Oldpeak }},
	{column: "ca", value: func(p PatientInput) float64 { return p.CA }},
}

var categoricalFields = []categoricalField{
	{
		name:       "sex",
		categories: []string{string(SexMale), string(SexFemale)},
		value:      func(p PatientInput) string { return string(p.Sex) },
		positive:   string(SexFemale),
		negative:   string(SexMale),
	},
	{
		name: "dataset",
		categories: []string{
			string(DatasetCleveland), string(DatasetHungary),
			string(DatasetSwitzerland), string(DatasetVALongBeach),
		},
		value: func(p PatientInput) string { return string(p.Dataset) },
	},
	{
		name: "cp",
		categories: []string{
			string(ChestPainTypical), string(ChestPainAtypical),
			string(ChestPainNonAnginal), string(ChestPainAsymptomatic),
		},
		value: func(p PatientInput) string { return string(p.CP) },
	},
	{
		name:       "fbs",
		categories: []string{string(FlagFalse), string(FlagTrue)},
		value:      func(p PatientInput) string { return string(p.FBS) },
		positive:   string(FlagTrue),
		negative:   string(FlagFalse),
	},
	{
		name: "restecg",
		categories: []string{
			string(RestingECGNormal), string(RestingECGLVHypertrophy), string(RestingECGSTTAbnormality),
		},
		value: func(p PatientInput) string { return string(p.Restecg) },
	},
	{
		name:       "exang",
		categories: []string{string(FlagFalse), string(FlagTrue)},
		value:      func(p PatientInput) string { return string(p.Exang) },
		positive:   string(FlagTrue),
		negative:   string(FlagFalse),
	},
	{
		name: "slope",
		categories: []string{
			string(SlopeFlat), string(SlopeUpsloping), string(SlopeDownsloping),
		},
		value: func(p PatientInput) string { return string(p.Slope) },
	},
	{
		name: "thal",
		categories: []string{
			string(ThalNormal), string(ThalFixedDefect), string(ThalReversableDefect),
		},
		value: func(p PatientInput) string { return string(p.Thal) },
	},
}

// ColumnName is the one-hot indicator name for a field selection.
// Category labels are used verbatim, spaces and punctuation included.
func ColumnName(field, category string) string {
	return field + "_" + category
}

// Vocabulary lists the categories offered for every categorical field.
func Vocabulary() map[string][]string {
	out := make(map[string][]string, len(categoricalFields))
	for _, f := range categoricalFields {
		out[f.name] = append([]string(nil), f.categories...)
	}
	return out
}

type boundNumeric struct {
	index int
	value func(PatientInput) float64
}

type boundCategorical struct {
	field   categoricalField
	columns map[string]int
	pos     int
	neg     int
}

// Encoder projects PatientInput onto a schema. Column positions are
// resolved once in New, so Encode never probes the schema by name.
type Encoder struct {
	schema      *schema.Schema
	numerics    []boundNumeric
	categorical []boundCategorical
	coverage    Coverage
}

// New resolves every numeric and categorical binding against s.
func New(s *schema.Schema) *Encoder {
	e := &Encoder{schema: s}
	claimed := make([]bool, s.Len())

	for _, f := range numericFields {
		i, ok := s.IndexOf(f.column)
		if !ok {
			e.coverage.MissingNumeric = append(e.coverage.MissingNumeric, f.column)
			continue
		}
		claimed[i] = true
		e.numerics = append(e.numerics, boundNumeric{index: i, value: f.value})
	}

	for _, f := range categoricalFields {
		b := boundCategorical{field: f, columns: map[string]int{}, pos: -1, neg: -1}
		fc := FieldCoverage{Field: f.name, Paired: f.paired()}
		for _, c := range f.categories {
			i, ok := s.IndexOf(ColumnName(f.name, c))
			if !ok {
				fc.Missing = append(fc.Missing, c)
				continue
			}
			claimed[i] = true
			fc.Supported = append(fc.Supported, c)
			b.columns[c] = i
			switch {
			case f.paired() && c == f.positive:
				b.pos = i
			case f.paired() && c == f.negative:
				b.neg = i
			}
		}
		e.categorical = append(e.categorical, b)
		e.coverage.Fields = append(e.coverage.Fields, fc)
	}

	for i, ok := range claimed {
		if !ok {
			e.coverage.Unclaimed = append(e.coverage.Unclaimed, s.Name(i))
		}
	}
	return e
}

// Schema returns the schema the encoder was built against.
func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}

// Encode builds a record covering every schema column, in schema order.
// Selections without a schema column are dropped silently.
func (e *Encoder) Encode(in PatientInput) *Record {
	values := make([]float64, e.schema.Len())

	for _, n := range e.numerics {
		values[n.index] = n.value(in)
	}

	for _, b := range e.categorical {
		sel := b.field.value(in)
		if b.field.paired() {
			on := sel == b.field.positive
			if b.pos >= 0 {
				values[b.pos] = indicator(on)
			}
			if b.neg >= 0 {
				values[b.neg] = indicator(!on)
			}
			continue
		}
		if i, ok := b.columns[sel]; ok {
			values[i] = 1
		}
	}

	return &Record{schema: e.schema, values: values}
}

// SelfCheck encodes CanonicalInput and verifies the record lines up with
// the schema column for column.
func (e *Encoder) SelfCheck() error {
	rec := e.Encode(CanonicalInput())
	if rec.Len() != e.schema.Len() {
		return fmt.Errorf("%w: record width %d, schema width %d", ErrMissingSchemaColumn, rec.Len(), e.schema.Len())
	}
	names := rec.Names()
	for i, want := range e.schema.Names() {
		if names[i] != want {
			return fmt.Errorf("%w: position %d holds %q, schema expects %q", ErrMissingSchemaColumn, i, names[i], want)
		}
	}
	if _, err := rec.Align(e.schema); err != nil {
		return err
	}
	return nil
}

// Coverage reports which bindings this schema supports.
func (e *Encoder) Coverage() Coverage {
	return e.coverage.clone()
}

func indicator(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
