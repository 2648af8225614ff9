package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/errors"
)

func TestLinearPredict(t *testing.T) {
	m, err := DecodeRegressor([]byte(`{"kind":"linear","n_features":3,"coef":[0.5,-1,2],"intercept":4}`))
	require.NoError(t, err)

	assert.Equal(t, KindLinear, m.Kind())
	assert.Equal(t, 3, m.NumFeatures())

	y, err := m.Predict([]float64{2, 1, 0.25})
	require.NoError(t, err)
	assert.InDelta(t, 1-1+0.5+4, y, 1e-12)
}

func TestLinearShapeMismatch(t *testing.T) {
	m, err := DecodeRegressor([]byte(`{"kind":"linear","coef":[1,2]}`))
	require.NoError(t, err)

	_, err = m.Predict([]float64{1, 2, 3})
	require.Error(t, err)
	assert.Equal(t, errors.CodeShapeMismatch, errors.GetCode(err))
}

func TestLinearRejectsInconsistentExport(t *testing.T) {
	_, err := DecodeRegressor([]byte(`{"kind":"linear","n_features":4,"coef":[1,2]}`))
	assert.Error(t, err)

	_, err = DecodeRegressor([]byte(`{"kind":"linear","coef":[]}`))
	assert.Error(t, err)

	_, err = DecodeRegressor([]byte(`{"kind":"linear","coef":[1],"bias":3}`))
	assert.Error(t, err, "unknown fields are rejected")
}

const stump = `{
	"children_left":  [1, -1, -1],
	"children_right": [2, -1, -1],
	"feature":        [0, -2, -2],
	"threshold":      [0.0, -2, -2],
	"value":          [0, 3.0, 5.0]
}`

func TestForestPredictAveragesTrees(t *testing.T) {
	const second = `{
		"children_left":  [-1],
		"children_right": [-1],
		"feature":        [-2],
		"threshold":      [-2],
		"value":          [4.0]
	}`
	m, err := DecodeRegressor([]byte(`{"kind":"random_forest","n_features":2,"estimators":[` + stump + `,` + second + `]}`))
	require.NoError(t, err)
	assert.Equal(t, KindRandomForest, m.Kind())

	left, err := m.Predict([]float64{-1, 9})
	require.NoError(t, err)
	assert.Equal(t, 3.5, left)

	right, err := m.Predict([]float64{0.5, 9})
	require.NoError(t, err)
	assert.Equal(t, 4.5, right)

	// threshold is inclusive on the left
	edge, err := m.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 3.5, edge)

	_, err = m.Predict([]float64{0})
	assert.True(t, errors.HasCode(err, errors.CodeShapeMismatch))
}

func TestForestSplitsAtFloat32Precision(t *testing.T) {
	m, err := DecodeRegressor([]byte(`{"kind":"random_forest","n_features":1,"estimators":[{
		"children_left":  [1, -1, -1],
		"children_right": [2, -1, -1],
		"feature":        [0, -2, -2],
		"threshold":      [0.5, -2, -2],
		"value":          [0, 1, 2]
	}]}`))
	require.NoError(t, err)

	near, err := m.Predict([]float64{0.50000000001})
	require.NoError(t, err)
	assert.Equal(t, 1.0, near)

	above, err := m.Predict([]float64{0.5001})
	require.NoError(t, err)
	assert.Equal(t, 2.0, above)
}

func TestForestRejectsBadTrees(t *testing.T) {
	tests := map[string]string{
		"no n_features":      `{"kind":"random_forest","estimators":[` + stump + `]}`,
		"no estimators":      `{"kind":"random_forest","n_features":1,"estimators":[]}`,
		"feature too wide":   `{"kind":"random_forest","n_features":1,"estimators":[{"children_left":[1,-1,-1],"children_right":[2,-1,-1],"feature":[3,-2,-2],"threshold":[0,0,0],"value":[0,1,2]}]}`,
		"cycle":              `{"kind":"random_forest","n_features":1,"estimators":[{"children_left":[0],"children_right":[0],"feature":[0],"threshold":[0],"value":[0]}]}`,
		"ragged arrays":      `{"kind":"random_forest","n_features":1,"estimators":[{"children_left":[-1],"children_right":[-1,-1],"feature":[0],"threshold":[0],"value":[0]}]}`,
		"half leaf":          `{"kind":"random_forest","n_features":1,"estimators":[{"children_left":[-1,-1],"children_right":[1,-1],"feature":[0,0],"threshold":[0,0],"value":[0,0]}]}`,
		"unknown model kind": `{"kind":"svm"}`,
		"missing kind":       `{"coef":[1]}`,
		"not json":           `pickle`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRegressor([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestStandardScaler(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"kind":"standard","mean":[10,0,5],"scale":[2,1,0]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, s.NumFeatures())

	x := []float64{14, 3, 7}
	out, err := s.Transform(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 2}, out)
	assert.Equal(t, []float64{14, 3, 7}, x, "input must not be modified")

	_, err = s.Transform([]float64{1, 2})
	assert.Equal(t, errors.CodeShapeMismatch, errors.GetCode(err))
}

func TestStandardScalerWithoutMean(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"mean":[100,100],"scale":[2,4],"with_mean":false}`))
	require.NoError(t, err)

	out, err := s.Transform([]float64{2, 8})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out)
}

func TestMinMaxScaler(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"kind":"minmax","min":[-1,0],"scale":[0.5,0.01]}`))
	require.NoError(t, err)
	assert.Equal(t, KindMinMaxScaler, s.Kind())

	out, err := s.Transform([]float64{4, 50})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.5}, out, 1e-12)

	_, err = DecodeScaler([]byte(`{"kind":"minmax","min":[0],"scale":[1,2]}`))
	assert.Error(t, err)
}

func TestDecodeColumns(t *testing.T) {
	cols, err := DecodeColumns([]byte(`["GDP","thinness  1-19 years"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"GDP", "thinness  1-19 years"}, cols)

	_, err = DecodeColumns([]byte(`{"columns":[]}`))
	assert.Error(t, err)
}
