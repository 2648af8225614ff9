// Package features turns a raw form submission into the fixed-width vector a
// trained model expects.
package features

import (
	"fmt"
	"strings"
)

// One-hot indicator columns for the status category. Training drops one
// reference level, so a schema carries at most one of these in practice.
const (
	ColumnStatusDeveloping = "Status_Developing"
	ColumnStatusDeveloped  = "Status_Developed"
)

// Schema is the ordered list of columns the model was trained on.
// It is supplied by the training step and never computed here.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema validates and wraps an ordered column list. Empty or duplicate
// names are rejected because they make column assignment ambiguous.
func NewSchema(columns []string) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, fmt.Errorf("feature schema has no columns")
	}
	index := make(map[string]int, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return Schema{}, fmt.Errorf("feature schema column %d has an empty name", i)
		}
		if prev, dup := index[c]; dup {
			return Schema{}, fmt.Errorf("feature schema column %q appears at %d and %d", c, prev, i)
		}
		index[c] = i
		cols[i] = c
	}
	return Schema{columns: cols, index: index}, nil
}

// MustSchema is NewSchema for literals in tests and fixtures.
func MustSchema(columns ...string) Schema {
	s, err := NewSchema(columns)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the ordered column names.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len is the vector width.
func (s Schema) Len() int { return len(s.columns) }

// Index returns the position of column, if present.
func (s Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// Has reports whether column is part of the schema.
func (s Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// CategoricalEncoding is how the status category reaches the vector, decided
// once from the schema.
type CategoricalEncoding int

const (
	// EncodingNone: the schema has no status column; status is dropped.
	EncodingNone CategoricalEncoding = iota
	// EncodingDevelopingFlag: Status_Developing = 1 for Developing, else 0.
	EncodingDevelopingFlag
	// EncodingDevelopedFlag: Status_Developed = 1 for Developed, else 0.
	EncodingDevelopedFlag
)

func (e CategoricalEncoding) String() string {
	switch e {
	case EncodingDevelopingFlag:
		return "developing-flag"
	case EncodingDevelopedFlag:
		return "developed-flag"
	default:
		return "none"
	}
}

// Column is the indicator column the encoding writes, or "" for none.
func (e CategoricalEncoding) Column() string {
	switch e {
	case EncodingDevelopingFlag:
		return ColumnStatusDeveloping
	case EncodingDevelopedFlag:
		return ColumnStatusDeveloped
	default:
		return ""
	}
}

// ResolveEncoding picks the encoding for a schema. Developing wins when both
// flags are present.
func ResolveEncoding(s Schema) CategoricalEncoding {
	switch {
	case s.Has(ColumnStatusDeveloping):
		return EncodingDevelopingFlag
	case s.Has(ColumnStatusDeveloped):
		return EncodingDevelopedFlag
	default:
		return EncodingNone
	}
}
