package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"lifeexp/internal/errors"
	"lifeexp/ports"
)

// Scaler kinds.
const (
	KindStandardScaler = "standard"
	KindMinMaxScaler   = "minmax"
)

// StandardScaler applies (x - mean) / scale per column.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// MinMaxScaler applies x*scale + min per column.
type MinMaxScaler struct {
	Min   []float64
	Scale []float64
}

type scalerJSON struct {
	Kind     string    `json:"kind"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
	Min      []float64 `json:"min"`
	WithMean *bool     `json:"with_mean"`
	WithStd  *bool     `json:"with_std"`
}

func (j scalerJSON) build() (ports.Scaler, error) {
	switch j.Kind {
	case KindStandardScaler, "":
		s, err := j.buildStandard()
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindMinMaxScaler:
		if len(j.Min) == 0 || len(j.Min) != len(j.Scale) {
			return nil, fmt.Errorf("minmax scaler needs equal-length min and scale, got %d and %d", len(j.Min), len(j.Scale))
		}
		if !allFinite(j.Min) || !allFinite(j.Scale) {
			return nil, fmt.Errorf("minmax scaler has non-finite parameters")
		}
		return &MinMaxScaler{Min: j.Min, Scale: j.Scale}, nil
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", j.Kind)
	}
}

func (j scalerJSON) buildStandard() (*StandardScaler, error) {
	n := len(j.Mean)
	if n == 0 {
		n = len(j.Scale)
	}
	if n == 0 {
		return nil, fmt.Errorf("standard scaler has no parameters")
	}

	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	if j.WithMean == nil || *j.WithMean {
		if len(j.Mean) != n {
			return nil, fmt.Errorf("standard scaler mean has %d entries, want %d", len(j.Mean), n)
		}
		copy(mean, j.Mean)
	}
	if j.WithStd == nil || *j.WithStd {
		if len(j.Scale) != n {
			return nil, fmt.Errorf("standard scaler scale has %d entries, want %d", len(j.Scale), n)
		}
		copy(scale, j.Scale)
	}
	if !allFinite(mean) || !allFinite(scale) {
		return nil, fmt.Errorf("standard scaler has non-finite parameters")
	}
	// zero-variance columns are exported with scale 1; guard older exports
	for i, s := range scale {
		if s == 0 {
			scale[i] = 1
		}
	}
	return &StandardScaler{Mean: mean, Scale: scale}, nil
}

// Kind implements ports.Scaler.
func (s *StandardScaler) Kind() string { return KindStandardScaler }

// NumFeatures implements ports.Scaler.
func (s *StandardScaler) NumFeatures() int { return len(s.Mean) }

// Transform implements ports.Scaler.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, errors.ShapeMismatch("standard scaler", len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.Mean)
	floats.Div(out, s.Scale)
	return out, nil
}

// Kind implements ports.Scaler.
func (s *MinMaxScaler) Kind() string { return KindMinMaxScaler }

// NumFeatures implements ports.Scaler.
func (s *MinMaxScaler) NumFeatures() int { return len(s.Min) }

// Transform implements ports.Scaler.
func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Min) {
		return nil, errors.ShapeMismatch("minmax scaler", len(x), len(s.Min))
	}
	out := make([]float64, len(x))
	floats.MulTo(out, x, s.Scale)
	floats.Add(out, s.Min)
	return out, nil
}
