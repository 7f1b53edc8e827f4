package encoder

// FieldCoverage lists the categories of one field that have a schema column.
// Missing categories are offered by the form but were never seen in training.
type FieldCoverage struct {
	Field     string   `json:"field"`
	Paired    bool     `json:"paired"`
	Supported []string `json:"supported"`
	Missing   []string `json:"missing,omitempty"`
}

type Coverage struct {
	MissingNumeric []string        `json:"missing_numeric,omitempty"`
	Fields         []FieldCoverage `json:"fields"`

	// Unclaimed columns are never written by the encoder and stay 0.
	Unclaimed []string `json:"unclaimed,omitempty"`
}

// Gaps reports whether any numeric field or category lacks a column.
func (c Coverage) Gaps() bool {
	if len(c.MissingNumeric) > 0 {
		return true
	}
	for _, f := range c.Fields {
		if len(f.Missing) > 0 {
			return true
		}
	}
	return false
}

func (c Coverage) clone() Coverage {
	out := Coverage{
		MissingNumeric: append([]string(nil), c.MissingNumeric...),
		Unclaimed:      append([]string(nil), c.Unclaimed...),
		Fields:         make([]FieldCoverage, len(c.Fields)),
	}
	for i, f := range c.Fields {
		out.Fields[i] = FieldCoverage{
			Field:     f.Field,
			Paired:    f.Paired,
			Supported: append([]string(nil), f.Supported...),
			Missing:   append([]string(nil), f.Missing...),
		}
	}
	return out
}
