package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/errors"
)

func TestCatalogMatchesControlTable(t *testing.T) {
	tests := []struct {
		key              Key
		column           string
		kind             Kind
		min, max, def, s float64
	}{
		{"income", "Income composition of resources", KindFloat, 0, 1, 0.6, 0.01},
		{"schooling", "Schooling", KindFloat, 0, 20, 12, 0.5},
		{"gdp", "GDP", KindInt, 0, 100000, 5000, 100},
		{"expenditure", "percentage expenditure", KindFloat, 0, 20, 5, 0.1},
		{"total_exp", "Total expenditure", KindFloat, 0, 15, 6, 0.1},
		{"adult_mortality", "Adult Mortality", KindInt, 0, 1000, 150, 1},
		{"under_five", "under-five deaths", KindInt, 0, 2500, 50, 1},
		{"hiv", "HIV/AIDS", KindFloat, 0, 50, 0.1, 0.1},
		{"bmi", "BMI", KindFloat, 10, 60, 25, 0.1},
		{"alcohol", "Alcohol", KindFloat, 0, 20, 4, 0.1},
		{"thinness", "thinness  1-19 years", KindFloat, 0, 30, 5, 0.1},
		{"polio", "Polio", KindInt, 0, 100, 80, 1},
		{"diphtheria", "Diphtheria", KindInt, 0, 100, 80, 1},
		{"hepatitis", "Hepatitis B", KindInt, 0, 100, 80, 1},
		{"measles", "Measles", KindInt, 0, 10000, 500, 1},
	}

	cat := Catalog()
	require.Len(t, cat, len(tests))
	for i, tt := range tests {
		ind := cat[i]
		assert.Equal(t, tt.key, ind.Key)
		assert.Equal(t, tt.column, ind.Column, "column for %s", tt.key)
		assert.Equal(t, tt.kind, ind.Kind, "kind for %s", tt.key)
		assert.Equal(t, tt.min, ind.Min, "min for %s", tt.key)
		assert.Equal(t, tt.max, ind.Max, "max for %s", tt.key)
		assert.Equal(t, tt.def, ind.Default, "default for %s", tt.key)
		assert.Equal(t, tt.s, ind.Step, "step for %s", tt.key)
	}
}

func TestThinnessColumnKeepsDoubleSpace(t *testing.T) {
	ind, ok := Lookup("thinness")
	require.True(t, ok)
	assert.Equal(t, "thinness  1-19 years", ind.Column)
	assert.NotEqual(t, "thinness 1-19 years", ind.Column)
}

func TestNormalize(t *testing.T) {
	gdp, _ := Lookup("gdp")
	income, _ := Lookup("income")
	bmi, _ := Lookup("bmi")
	schooling, _ := Lookup("schooling")

	assert.Equal(t, 100000.0, gdp.Normalize(250000))
	assert.Equal(t, 0.0, gdp.Normalize(-5))
	assert.Equal(t, 5100.0, gdp.Normalize(5060))
	assert.Equal(t, 0.63, income.Normalize(0.6312))
	assert.Equal(t, 1.0, income.Normalize(1.7))
	assert.Equal(t, 10.0, bmi.Normalize(3))
	assert.Equal(t, 25.3, bmi.Normalize(25.28))
	assert.Equal(t, 12.5, schooling.Normalize(12.4))
}

func TestDecimals(t *testing.T) {
	income, _ := Lookup("income")
	gdp, _ := Lookup("gdp")
	hiv, _ := Lookup("hiv")
	assert.Equal(t, 2, income.Decimals())
	assert.Equal(t, 0, gdp.Decimals())
	assert.Equal(t, 1, hiv.Decimals())
	assert.Equal(t, "0.10", income.Format(0.1))
}

func TestDefaults(t *testing.T) {
	raw := Defaults()
	assert.Equal(t, StatusDeveloping, raw.Status)
	assert.Len(t, raw.Values, 15)
	v, ok := raw.Value("adult_mortality")
	require.True(t, ok)
	assert.Equal(t, 150.0, v)
}

func TestParse(t *testing.T) {
	raw, err := Parse(map[string]string{
		"status":          " developed ",
		"adult_mortality": "2000",
		"bmi":             "31.04",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDeveloped, raw.Status)
	assert.Equal(t, 1000.0, raw.Values["adult_mortality"])
	assert.Equal(t, 31.0, raw.Values["bmi"])
	assert.Equal(t, 80.0, raw.Values["polio"])
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(map[string]string{"status": "Emerging"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = Parse(map[string]string{"gdp": "lots"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = Parse(map[string]string{"hiv": "NaN"})
	require.Error(t, err)
}

func TestFieldsRoundTrip(t *testing.T) {
	raw := Defaults().With("hiv", 2.34)
	fields := raw.Fields()
	assert.Equal(t, "Developing", fields["status"])
	assert.Equal(t, "2.3", fields["hiv"])

	back, err := Parse(fields)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestGroupsCoverCatalog(t *testing.T) {
	total := 0
	for _, g := range []Group{GroupEconomy, GroupHealth, GroupImmunization, GroupDisease} {
		total += len(InGroup(g))
	}
	assert.Equal(t, len(Catalog()), total)
}
