package features

import (
	"lifeexp/domain/indicator"
)

// Vector is a single row laid out exactly like its Schema.
type Vector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Len is the number of cells.
func (v Vector) Len() int { return len(v.Values) }

// Get returns the value of a named column.
func (v Vector) Get(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Assembler maps raw inputs onto a schema. It is immutable once built and
// safe for concurrent use.
type Assembler struct {
	schema   Schema
	encoding CategoricalEncoding
	targets  []target
	unmapped []string
}

type target struct {
	key   indicator.Key
	index int
}

// NewAssembler resolves the indicator-to-column mapping and the status
// encoding against the schema once, up front.
func NewAssembler(schema Schema) *Assembler {
	a := &Assembler{
		schema:   schema,
		encoding: ResolveEncoding(schema),
	}

	mapped := make(map[int]bool)
	for _, ind := range indicator.Catalog() {
		if i, ok := schema.Index(ind.Column); ok {
			a.targets = append(a.targets, target{key: ind.Key, index: i})
			mapped[i] = true
		}
	}
	if col := a.encoding.Column(); col != "" {
		i, _ := schema.Index(col)
		mapped[i] = true
	}
	for i, c := range schema.columns {
		if !mapped[i] {
			a.unmapped = append(a.unmapped, c)
		}
	}
	return a
}

// Schema returns the schema the assembler targets.
func (a *Assembler) Schema() Schema { return a.schema }

// Encoding returns the resolved status encoding.
func (a *Assembler) Encoding() CategoricalEncoding { return a.encoding }

// Unmapped lists schema columns no input or status rule reaches. They are
// always zero in assembled vectors.
func (a *Assembler) Unmapped() []string {
	out := make([]string, len(a.unmapped))
	copy(out, a.unmapped)
	return out
}

// Assemble builds the model input row. Every cell starts at 0.0; mapped
// indicators overwrite their column, then the status flag is applied.
func (a *Assembler) Assemble(raw indicator.RawInput) Vector {
	values := make([]float64, a.schema.Len())

	for _, t := range a.targets {
		if v, ok := raw.Values[t.key]; ok {
			values[t.index] = v
		}
	}

	switch a.encoding {
	case EncodingDevelopingFlag:
		i, _ := a.schema.Index(ColumnStatusDeveloping)
		values[i] = flag(raw.Status == indicator.StatusDeveloping)
	case EncodingDevelopedFlag:
		i, _ := a.schema.Index(ColumnStatusDeveloped)
		values[i] = flag(raw.Status == indicator.StatusDeveloped)
	}

	return Vector{Columns: a.schema.Columns(), Values: values}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
