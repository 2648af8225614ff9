package app

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/adapters/artifacts"
	"lifeexp/adapters/model"
	"lifeexp/domain/features"
	"lifeexp/domain/indicator"
	"lifeexp/internal/errors"
	"lifeexp/internal/testkit"
	"lifeexp/ports"
)

func loadPack(t *testing.T, p testkit.Pack) *ports.ArtifactPack {
	t.Helper()
	fsys, err := p.MapFS()
	require.NoError(t, err)
	pack, err := artifacts.NewLoader(nil).Load(context.Background(), fsys, p.Variant)
	require.NoError(t, err)
	return pack
}

func TestPredictDefaultsLinear(t *testing.T) {
	svc := NewPredictionService(loadPack(t, testkit.LinearPack()), nil)

	p, err := svc.Predict(context.Background(), indicator.Defaults())
	require.NoError(t, err)

	assert.Equal(t, "linear", p.Variant)
	assert.InDelta(t, testkit.DefaultLinearYears, p.Years, 1e-9)
	assert.Equal(t, "71.00 years", p.Display)

	mortality, ok := p.Vector.Get("Adult Mortality")
	require.True(t, ok)
	assert.Equal(t, 150.0, mortality)
	flag, _ := p.Vector.Get(features.ColumnStatusDeveloping)
	assert.Equal(t, 1.0, flag)
	population, _ := p.Vector.Get("Population")
	assert.Zero(t, population)
}

func TestPredictIsExpm1OfPipeline(t *testing.T) {
	for _, kit := range []testkit.Pack{testkit.LinearPack(), testkit.ForestPack()} {
		t.Run(kit.Variant.Name, func(t *testing.T) {
			pack := loadPack(t, kit)
			svc := NewPredictionService(pack, nil)
			raw := indicator.Defaults().With("hiv", 7.5).With("income", 0.91)

			p, err := svc.Predict(context.Background(), raw)
			require.NoError(t, err)

			scaled, err := pack.Scaler.Transform(svc.Assemble(raw).Values)
			require.NoError(t, err)
			y, err := pack.Model.Predict(scaled)
			require.NoError(t, err)

			assert.Equal(t, y, p.LogValue)
			assert.Equal(t, math.Expm1(y), p.Years)
			assert.Equal(t, FormatYears(math.Expm1(y)), p.Display)
		})
	}
}

func TestPredictDefaultsForest(t *testing.T) {
	svc := NewPredictionService(loadPack(t, testkit.ForestPack()), nil)

	p, err := svc.Predict(context.Background(), indicator.Defaults())
	require.NoError(t, err)
	assert.InDelta(t, testkit.DefaultForestLog, p.LogValue, 1e-12)

	// high mortality takes the right branch of the first tree
	worse, err := svc.Predict(context.Background(), indicator.Defaults().With("adult_mortality", 600))
	require.NoError(t, err)
	assert.Less(t, worse.Years, p.Years)
}

func TestPredictStatusChangesLinearOutput(t *testing.T) {
	svc := NewPredictionService(loadPack(t, testkit.LinearPack()), nil)
	assert.Equal(t, features.EncodingDevelopingFlag, svc.Encoding())

	developed := indicator.Defaults()
	developed.Status = indicator.StatusDeveloped

	a, err := svc.Predict(context.Background(), indicator.Defaults())
	require.NoError(t, err)
	b, err := svc.Predict(context.Background(), developed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Years, b.Years)

	flag, _ := b.Vector.Get(features.ColumnStatusDeveloping)
	assert.Zero(t, flag)
}

func TestPredictIsDeterministic(t *testing.T) {
	svc := NewPredictionService(loadPack(t, testkit.ForestPack()), nil)
	raw := indicator.Defaults().With("schooling", 15.5)

	a, err := svc.Predict(context.Background(), raw)
	require.NoError(t, err)
	b, err := svc.Predict(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, a.Years, b.Years)
	assert.Equal(t, a.Vector, b.Vector)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPredictShapeMismatch(t *testing.T) {
	pack := loadPack(t, testkit.LinearPack())
	pack.Scaler = &model.StandardScaler{Mean: []float64{0, 0, 0}, Scale: []float64{1, 1, 1}}
	svc := NewPredictionService(pack, nil)

	p, err := svc.Predict(context.Background(), indicator.Defaults())
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Equal(t, errors.CodeShapeMismatch, errors.GetCode(err))
	assert.Contains(t, err.Error(), "expects 3 features")
}

func TestPredictRespectsCancelledContext(t *testing.T) {
	svc := NewPredictionService(loadPack(t, testkit.LinearPack()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, indicator.Defaults())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatYears(t *testing.T) {
	assert.Equal(t, "72.35 years", FormatYears(72.3456))
	assert.Equal(t, "-0.50 years", FormatYears(-0.5))
}
