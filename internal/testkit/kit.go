// Package testkit produces small synthetic artifact packs with the same file
// layout and formats the training step writes. They back the test suites and
// the `fixtures` CLI command, so a fresh checkout can serve predictions
// before any real model has been trained.
package testkit

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing/fstest"

	"lifeexp/adapters/model"
	"lifeexp/domain/features"
	"lifeexp/domain/indicator"
	"lifeexp/internal/config"
)

// TrainingColumns is the feature order of the synthetic packs: every mapped
// indicator, three engineered columns the form never sets, and the
// Developing status flag.
var TrainingColumns = []string{
	"Year",
	"Adult Mortality",
	"infant deaths",
	"Alcohol",
	"percentage expenditure",
	"Hepatitis B",
	"Measles",
	"BMI",
	"under-five deaths",
	"Polio",
	"Total expenditure",
	"Diphtheria",
	"HIV/AIDS",
	"GDP",
	"Population",
	indicator.ThinnessColumn,
	"thinness 5-9 years",
	"Income composition of resources",
	"Schooling",
	features.ColumnStatusDeveloping,
}

// Pack is a complete artifact set for one variant.
type Pack struct {
	Variant config.VariantConfig
	Columns []string
	Model   interface{}
	Scaler  interface{}
	Card    string
}

// LinearPack returns a linear regression whose untouched-form prediction is
// DefaultLinearYears.
func LinearPack() Pack {
	mean, scale := scalerParams(TrainingColumns)
	coef := make([]float64, len(TrainingColumns))
	weights := map[string]float64{
		"Adult Mortality":                 -0.06,
		"HIV/AIDS":                        -0.04,
		"Schooling":                       0.03,
		"Income composition of resources": 0.05,
		"BMI":                             0.01,
		"Diphtheria":                      0.01,
		features.ColumnStatusDeveloping:   -0.02,
	}
	for i, col := range TrainingColumns {
		coef[i] = weights[col]
	}

	return Pack{
		Variant: variant("linear"),
		Columns: TrainingColumns,
		Model: map[string]interface{}{
			"kind":       model.KindLinear,
			"n_features": len(coef),
			"coef":       coef,
			// the Developing flag scales to 1 for untouched input
			"intercept": math.Log1p(DefaultLinearYears) + 0.02,
		},
		Scaler: map[string]interface{}{"kind": model.KindStandardScaler, "mean": mean, "scale": scale},
		Card:   "# Linear regression\n\nOrdinary least squares on `log1p(life expectancy)`.\n\n| metric | value |\n|---|---|\n| R² | 0.82 |\n",
	}
}

// DefaultLinearYears is what LinearPack predicts for indicator.Defaults().
const DefaultLinearYears = 71.0

// ForestPack returns a two-tree random forest. For indicator.Defaults() it
// predicts the mean of log1p(74) and log1p(68).
func ForestPack() Pack {
	mean, scale := scalerParams(TrainingColumns)
	idx := func(col string) int {
		for i, c := range TrainingColumns {
			if c == col {
				return i
			}
		}
		panic("testkit: unknown column " + col)
	}

	// scaled thresholds of 0 split exactly at the control defaults
	mortality := model.RegressionTree{
		ChildrenLeft:  []int{1, 2, -1, -1, -1},
		ChildrenRight: []int{4, 3, -1, -1, -1},
		Feature:       []int{idx("Adult Mortality"), idx("HIV/AIDS"), -2, -2, -2},
		Threshold:     []float64{0, 0, -2, -2, -2},
		Value:         []float64{0, 0, math.Log1p(74), math.Log1p(66), math.Log1p(60)},
	}
	income := model.RegressionTree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{idx("Income composition of resources"), -2, -2},
		Threshold:     []float64{0, -2, -2},
		Value:         []float64{0, math.Log1p(68), math.Log1p(76)},
	}

	return Pack{
		Variant: variant("forest"),
		Columns: TrainingColumns,
		Model: map[string]interface{}{
			"kind":       model.KindRandomForest,
			"n_features": len(TrainingColumns),
			"estimators": []model.RegressionTree{mortality, income},
		},
		Scaler: map[string]interface{}{"kind": model.KindStandardScaler, "mean": mean, "scale": scale},
		Card:   "# Random forest\n\nTwo shallow trees on `log1p(life expectancy)`.\n",
	}
}

// DefaultForestLog is ForestPack's log-space output for indicator.Defaults().
var DefaultForestLog = (math.Log1p(74) + math.Log1p(68)) / 2

// scalerParams centres each mapped column on its control default and scales
// by a quarter of its range, so default input scales to zero.
func scalerParams(columns []string) (mean, scale []float64) {
	byColumn := make(map[string]indicator.Indicator)
	for _, ind := range indicator.Catalog() {
		byColumn[ind.Column] = ind
	}
	mean = make([]float64, len(columns))
	scale = make([]float64, len(columns))
	for i, col := range columns {
		scale[i] = 1
		if ind, ok := byColumn[col]; ok {
			mean[i] = ind.Default
			scale[i] = (ind.Max - ind.Min) / 4
		}
		if col == features.ColumnStatusDeveloping || col == features.ColumnStatusDeveloped {
			mean[i], scale[i] = 0.5, 0.5
		}
	}
	return mean, scale
}

func variant(name string) config.VariantConfig {
	for _, v := range config.DefaultVariants() {
		if v.Name == name {
			v.ScalerFile = config.DefaultScalerFile
			v.ColumnsFile = config.DefaultColumnsFile
			v.ModelCard = config.DefaultModelCard
			return v
		}
	}
	panic("testkit: no default variant " + name)
}

// Files renders the pack as file name to contents.
func (p Pack) Files() (map[string][]byte, error) {
	files := make(map[string][]byte, 4)
	for name, v := range map[string]interface{}{
		p.Variant.ModelFile:   p.Model,
		p.Variant.ScalerFile:  p.Scaler,
		p.Variant.ColumnsFile: p.Columns,
	} {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		files[name] = data
	}
	if p.Card != "" {
		files[p.Variant.ModelCard] = []byte(p.Card)
	}
	return files, nil
}

// MapFS renders the pack as an in-memory filesystem rooted at the variant
// directory.
func (p Pack) MapFS() (fstest.MapFS, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}
	fsys := make(fstest.MapFS, len(files))
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data, Mode: 0o644}
	}
	return fsys, nil
}

// Write stores the pack under root/<variant dir>.
func (p Pack) Write(root string) error {
	files, err := p.Files()
	if err != nil {
		return err
	}
	dir := filepath.Join(root, p.Variant.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// WriteFixtures writes both synthetic packs under root and returns their
// variant configuration.
func WriteFixtures(root string) ([]config.VariantConfig, error) {
	var variants []config.VariantConfig
	for _, p := range []Pack{LinearPack(), ForestPack()} {
		if err := p.Write(root); err != nil {
			return nil, err
		}
		variants = append(variants, p.Variant)
	}
	return variants, nil
}
