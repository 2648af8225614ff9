package indicator

import (
	"math"
	"strconv"
	"strings"

	"lifeexp/internal/errors"
)

// ThinnessColumn is the training schema's name for teen thinness. The double
// space comes from the source dataset and must match verbatim.
const ThinnessColumn = "thinness  1-19 years"

var catalog = []Indicator{
	{Key: "income", Label: "Income composition of resources", Column: "Income composition of resources", Kind: KindFloat, Group: GroupEconomy, Min: 0, Max: 1, Default: 0.6, Step: 0.01},
	{Key: "schooling", Label: "Schooling (years)", Column: "Schooling", Kind: KindFloat, Group: GroupEconomy, Min: 0, Max: 20, Default: 12, Step: 0.5},
	{Key: "gdp", Label: "GDP per capita", Column: "GDP", Kind: KindInt, Group: GroupEconomy, Min: 0, Max: 100000, Default: 5000, Step: 100},
	{Key: "expenditure", Label: "Health expenditure (%)", Column: "percentage expenditure", Kind: KindFloat, Group: GroupEconomy, Min: 0, Max: 20, Default: 5, Step: 0.1},
	{Key: "total_exp", Label: "Total health expenditure (%)", Column: "Total expenditure", Kind: KindFloat, Group: GroupEconomy, Min: 0, Max: 15, Default: 6, Step: 0.1},
	{Key: "adult_mortality", Label: "Adult mortality", Column: "Adult Mortality", Kind: KindInt, Group: GroupHealth, Min: 0, Max: 1000, Default: 150, Step: 1},
	{Key: "under_five", Label: "Under-five deaths", Column: "under-five deaths", Kind: KindInt, Group: GroupHealth, Min: 0, Max: 2500, Default: 50, Step: 1},
	{Key: "hiv", Label: "HIV/AIDS rate", Column: "HIV/AIDS", Kind: KindFloat, Group: GroupHealth, Min: 0, Max: 50, Default: 0.1, Step: 0.1},
	{Key: "bmi", Label: "Body mass index (BMI)", Column: "BMI", Kind: KindFloat, Group: GroupHealth, Min: 10, Max: 60, Default: 25, Step: 0.1},
	{Key: "alcohol", Label: "Alcohol consumption", Column: "Alcohol", Kind: KindFloat, Group: GroupHealth, Min: 0, Max: 20, Default: 4, Step: 0.1},
	{Key: "thinness", Label: "Thinness 10-19 years (%)", Column: ThinnessColumn, Kind: KindFloat, Group: GroupHealth, Min: 0, Max: 30, Default: 5, Step: 0.1},
	{Key: "polio", Label: "Polio coverage (%)", Column: "Polio", Kind: KindInt, Group: GroupImmunization, Min: 0, Max: 100, Default: 80, Step: 1},
	{Key: "diphtheria", Label: "Diphtheria coverage (%)", Column: "Diphtheria", Kind: KindInt, Group: GroupImmunization, Min: 0, Max: 100, Default: 80, Step: 1},
	{Key: "hepatitis", Label: "Hepatitis B coverage (%)", Column: "Hepatitis B", Kind: KindInt, Group: GroupImmunization, Min: 0, Max: 100, Default: 80, Step: 1},
	{Key: "measles", Label: "Measles cases", Column: "Measles", Kind: KindInt, Group: GroupDisease, Min: 0, Max: 10000, Default: 500, Step: 1},
}

var byKey = func() map[Key]Indicator {
	m := make(map[Key]Indicator, len(catalog))
	for _, ind := range catalog {
		m[ind.Key] = ind
	}
	return m
}()

// Catalog returns the numeric controls in display order.
func Catalog() []Indicator {
	out := make([]Indicator, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a numeric control by key.
func Lookup(key Key) (Indicator, bool) {
	ind, ok := byKey[key]
	return ind, ok
}

// InGroup returns the controls of one layout group, in display order.
func InGroup(g Group) []Indicator {
	var out []Indicator
	for _, ind := range catalog {
		if ind.Group == g {
			out = append(out, ind)
		}
	}
	return out
}

// Defaults is the submission produced by an untouched form.
func Defaults() RawInput {
	values := make(map[Key]float64, len(catalog))
	for _, ind := range catalog {
		values[ind.Key] = ind.Default
	}
	return RawInput{Status: StatusDeveloping, Values: values}
}

// Parse builds a RawInput from string fields keyed by indicator key, the way
// forms, API payloads and batch rows arrive. Missing or blank fields take the
// control default; present values are normalized by the control.
func Parse(fields map[string]string) (RawInput, error) {
	raw := Defaults()

	if s := strings.TrimSpace(fields[string(StatusKey)]); s != "" {
		status, ok := ParseStatus(s)
		if !ok {
			return RawInput{}, errors.InvalidInput("status must be Developing or Developed, got " + strconv.Quote(s))
		}
		raw.Status = status
	}

	for _, ind := range catalog {
		s := strings.TrimSpace(fields[string(ind.Key)])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return RawInput{}, errors.InvalidInput(ind.Label + " must be a number, got " + strconv.Quote(s))
		}
		raw.Values[ind.Key] = ind.Normalize(v)
	}
	return raw, nil
}

// Fields is the inverse of Parse: the string form of every control.
func (r RawInput) Fields() map[string]string {
	fields := make(map[string]string, len(catalog)+1)
	fields[string(StatusKey)] = string(r.Status)
	for _, ind := range catalog {
		v, ok := r.Values[ind.Key]
		if !ok {
			v = ind.Default
		}
		fields[string(ind.Key)] = ind.Format(v)
	}
	return fields
}
