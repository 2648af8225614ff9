// Package model holds the inference side of the trained regressors and
// scalers. Parameters come from JSON exports of the fitted estimators.
package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"lifeexp/internal/errors"
)

// KindLinear is the artifact kind of a linear regression.
const KindLinear = "linear"

// LinearRegression is y = coef·x + intercept.
type LinearRegression struct {
	Coef      []float64
	Intercept float64
}

type linearJSON struct {
	Kind      string    `json:"kind"`
	NFeatures int       `json:"n_features"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (j linearJSON) build() (*LinearRegression, error) {
	if len(j.Coef) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	if j.NFeatures != 0 && j.NFeatures != len(j.Coef) {
		return nil, fmt.Errorf("linear model declares %d features but has %d coefficients", j.NFeatures, len(j.Coef))
	}
	if !allFinite(j.Coef) || math.IsNaN(j.Intercept) || math.IsInf(j.Intercept, 0) {
		return nil, fmt.Errorf("linear model has non-finite parameters")
	}
	return &LinearRegression{Coef: j.Coef, Intercept: j.Intercept}, nil
}

// Kind implements ports.Regressor.
func (m *LinearRegression) Kind() string { return KindLinear }

// NumFeatures implements ports.Regressor.
func (m *LinearRegression) NumFeatures() int { return len(m.Coef) }

// Predict implements ports.Regressor.
func (m *LinearRegression) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coef) {
		return 0, errors.ShapeMismatch("linear model", len(x), len(m.Coef))
	}
	return floats.Dot(m.Coef, x) + m.Intercept, nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
