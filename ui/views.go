package ui

import (
	"strconv"

	"lifeexp/app"
	"lifeexp/domain/features"
	"lifeexp/domain/indicator"
)

type controlView struct {
	Key   string
	Label string
	Value string
	Min   string
	Max   string
	Step  string
}

type groupView struct {
	Title    string
	Controls []controlView
}

type vectorRow struct {
	Column string
	Value  float64
}

type formPage struct {
	Variant   string
	Title     string
	Status    string
	Statuses  []string
	Groups    []groupView
	Encoding  string
	Unmapped  []string
	ModelCard string
	Error     string
	Result    *app.Prediction
	Vector    []vectorRow
}

var groupTitles = []struct {
	group indicator.Group
	title string
}{
	{indicator.GroupEconomy, "Economy & Education"},
	{indicator.GroupHealth, "Health"},
	{indicator.GroupImmunization, "Immunization"},
	{indicator.GroupDisease, "Disease"},
}

func formGroups(raw indicator.RawInput) []groupView {
	groups := make([]groupView, 0, len(groupTitles))
	for _, g := range groupTitles {
		view := groupView{Title: g.title}
		for _, ind := range indicator.InGroup(g.group) {
			v, ok := raw.Value(ind.Key)
			if !ok {
				v = ind.Default
			}
			view.Controls = append(view.Controls, controlView{
				Key:   string(ind.Key),
				Label: ind.Label,
				Value: ind.Format(v),
				Min:   ind.Format(ind.Min),
				Max:   ind.Format(ind.Max),
				Step:  strconv.FormatFloat(ind.Step, 'f', -1, 64),
			})
		}
		if len(view.Controls) > 0 {
			groups = append(groups, view)
		}
	}
	return groups
}

func statusOptions() []string {
	var out []string
	for _, s := range indicator.Statuses() {
		out = append(out, string(s))
	}
	return out
}

func vectorRows(v features.Vector) []vectorRow {
	rows := make([]vectorRow, len(v.Columns))
	for i, col := range v.Columns {
		rows[i] = vectorRow{Column: col, Value: v.Values[i]}
	}
	return rows
}
