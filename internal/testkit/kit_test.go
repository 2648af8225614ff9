package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/adapters/model"
)

func TestPacksDecode(t *testing.T) {
	for _, p := range []Pack{LinearPack(), ForestPack()} {
		t.Run(p.Variant.Name, func(t *testing.T) {
			files, err := p.Files()
			require.NoError(t, err)
			require.Len(t, files, 4)

			reg, err := model.DecodeRegressor(files[p.Variant.ModelFile])
			require.NoError(t, err)
			assert.Equal(t, len(TrainingColumns), reg.NumFeatures())

			sc, err := model.DecodeScaler(files[p.Variant.ScalerFile])
			require.NoError(t, err)
			assert.Equal(t, len(TrainingColumns), sc.NumFeatures())

			cols, err := model.DecodeColumns(files[p.Variant.ColumnsFile])
			require.NoError(t, err)
			assert.Equal(t, TrainingColumns, cols)
		})
	}
}

func TestWriteFixtures(t *testing.T) {
	root := t.TempDir()
	variants, err := WriteFixtures(root)
	require.NoError(t, err)
	require.Len(t, variants, 2)

	for _, v := range variants {
		for _, name := range []string{v.ModelFile, v.ScalerFile, v.ColumnsFile, v.ModelCard} {
			_, err := os.Stat(filepath.Join(root, v.Dir, name))
			assert.NoError(t, err, "%s/%s", v.Dir, name)
		}
	}
}
