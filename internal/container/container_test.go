package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lifeexp/internal/config"
	"lifeexp/internal/errors"
	"lifeexp/internal/testkit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	variants, err := testkit.WriteFixtures(root)
	require.NoError(t, err)
	return &config.Config{Artifacts: config.ArtifactsConfig{Root: root, Variants: variants}}
}

func TestContainerPredictor(t *testing.T) {
	c, err := New(fixtureConfig(t), nil)
	require.NoError(t, err)
	defer c.Close()

	c.Preload(context.Background())

	a, err := c.Predictor(context.Background(), "forest")
	require.NoError(t, err)
	b, err := c.Predictor(context.Background(), "forest")
	require.NoError(t, err)
	assert.Same(t, a, b)

	name, err := c.DefaultVariant()
	require.NoError(t, err)
	assert.Equal(t, "linear", name)
}

func TestContainerReportsBrokenVariant(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Artifacts.Variants = append(cfg.Artifacts.Variants, config.VariantConfig{
		Name: "gbm", Title: "Boosted", Dir: "models3", ModelFile: "gbm.json",
		ScalerFile: config.DefaultScalerFile, ColumnsFile: config.DefaultColumnsFile,
	})
	c, err := New(cfg, nil)
	require.NoError(t, err)

	statuses := c.Variants(context.Background())
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Ready)
	assert.True(t, statuses[1].Ready)
	assert.False(t, statuses[2].Ready)
	assert.Equal(t, "Boosted", statuses[2].Title)
	assert.True(t, errors.IsArtifactError(statuses[2].Err))

	_, err = c.Predictor(context.Background(), "gbm")
	assert.True(t, errors.HasCode(err, errors.CodeArtifactNotFound))

	_, err = c.Predictor(context.Background(), "nope")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
