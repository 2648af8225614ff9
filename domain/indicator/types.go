// Package indicator defines the input controls a user can set when asking for
// a life-expectancy prediction, and the raw input they produce.
package indicator

import (
	"math"
	"strconv"
	"strings"
)

// Key identifies an indicator in forms, API payloads and batch files.
type Key string

// Kind is the value type a control produces.
type Kind string

const (
	KindFloat Kind = "float"
	KindInt   Kind = "int"
)

// Group is the layout section a control belongs to.
type Group string

const (
	GroupEconomy      Group = "economy"
	GroupHealth       Group = "health"
	GroupImmunization Group = "immunization"
	GroupDisease      Group = "disease"
)

// Status is the two-valued development status of a country.
type Status string

const (
	StatusDeveloping Status = "Developing"
	StatusDeveloped  Status = "Developed"
)

// StatusKey is the form/API name of the categorical status control.
const StatusKey Key = "status"

// Statuses lists the selectable values, default first.
func Statuses() []Status {
	return []Status{StatusDeveloping, StatusDeveloped}
}

// ParseStatus accepts either status value, ignoring case and surrounding space.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "developing":
		return StatusDeveloping, true
	case "developed":
		return StatusDeveloped, true
	}
	return "", false
}

// Indicator is one numeric control: its range, default and step, plus the
// schema column it feeds.
type Indicator struct {
	Key     Key
	Label   string
	Column  string
	Kind    Kind
	Group   Group
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

// Normalize does what the control itself does to a value: clamp into range,
// snap to the step grid anchored at Min, and round ints.
func (ind Indicator) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return ind.Default
	}
	v = clamp(v, ind.Min, ind.Max)
	if ind.Step > 0 {
		steps := math.Round((v - ind.Min) / ind.Step)
		v = ind.Min + steps*ind.Step
		v = roundTo(v, ind.Decimals())
		v = clamp(v, ind.Min, ind.Max)
	}
	if ind.Kind == KindInt {
		v = math.Round(v)
	}
	return v
}

// Decimals is the number of fractional digits the step implies.
func (ind Indicator) Decimals() int {
	if ind.Kind == KindInt {
		return 0
	}
	s := strconv.FormatFloat(ind.Step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// Format renders v with the precision the control displays.
func (ind Indicator) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', ind.Decimals(), 64)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// RawInput is one form submission: the status plus a value per indicator.
// It is created fresh per submission and never persisted.
type RawInput struct {
	Status Status
	Values map[Key]float64
}

// Value returns the value for key, if set.
func (r RawInput) Value(key Key) (float64, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// With returns a copy of r with key set to v, normalized by the control.
func (r RawInput) With(key Key, v float64) RawInput {
	values := make(map[Key]float64, len(r.Values)+1)
	for k, x := range r.Values {
		values[k] = x
	}
	if ind, ok := Lookup(key); ok {
		v = ind.Normalize(v)
	}
	values[key] = v
	return RawInput{Status: r.Status, Values: values}
}
