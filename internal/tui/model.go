// Package tui is the terminal counterpart of the web form.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lifeexp/app"
	"lifeexp/domain/indicator"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	groupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	resultStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("42")).Padding(0, 2)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	inspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type predictionMsg struct {
	prediction *app.Prediction
	err        error
}

// Model is the bubbletea model for one variant's form.
type Model struct {
	svc      *app.PredictionService
	controls []indicator.Indicator
	raw      indicator.RawInput
	cursor   int // 0 is the status row, i+1 is controls[i]
	inspect  bool
	result   *app.Prediction
	err      error
}

// New creates a form with every control at its default.
func New(svc *app.PredictionService) Model {
	return Model{
		svc:      svc,
		controls: indicator.Catalog(),
		raw:      indicator.Defaults(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionMsg:
		m.result, m.err = msg.prediction, msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.controls) {
				m.cursor++
			}
		case "left", "h":
			m = m.step(-1)
		case "right", "l":
			m = m.step(1)
		case "pgdown":
			m = m.step(-10)
		case "pgup":
			m = m.step(10)
		case "s":
			m = m.toggleStatus()
		case "r":
			m.raw = indicator.Defaults()
			m.result, m.err = nil, nil
		case "i":
			m.inspect = !m.inspect
		case "enter":
			return m, m.predict()
		}
	}
	return m, nil
}

func (m Model) step(n int) Model {
	if m.cursor == 0 {
		return m.toggleStatus()
	}
	ind := m.controls[m.cursor-1]
	v, _ := m.raw.Value(ind.Key)
	m.raw = m.raw.With(ind.Key, v+float64(n)*ind.Step)
	return m
}

func (m Model) toggleStatus() Model {
	if m.raw.Status == indicator.StatusDeveloping {
		m.raw.Status = indicator.StatusDeveloped
	} else {
		m.raw.Status = indicator.StatusDeveloping
	}
	return m
}

func (m Model) predict() tea.Cmd {
	svc, raw := m.svc, m.raw
	return func() tea.Msg {
		p, err := svc.Predict(context.Background(), raw)
		return predictionMsg{prediction: p, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.svc.Pack().Title))
	b.WriteString("\n")

	b.WriteString(m.line(0, "Status", string(m.raw.Status), m.raw.Status != indicator.StatusDeveloping))

	var group indicator.Group
	for i, ind := range m.controls {
		if ind.Group != group {
			group = ind.Group
			b.WriteString("\n" + groupStyle.Render(strings.ToUpper(string(group))) + "\n")
		}
		v, _ := m.raw.Value(ind.Key)
		b.WriteString(m.line(i+1, ind.Label, ind.Format(v), v != ind.Default))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Prediction failed: "+m.err.Error()) + "\n")
	case m.result != nil:
		b.WriteString(resultStyle.Render("Predicted life expectancy: "+m.result.Display) + "\n")
		if m.inspect {
			b.WriteString(m.inspection())
		}
	}

	b.WriteString(helpStyle.Render("↑/↓ select • ←/→ adjust • s status • enter predict • i inspect • r reset • q quit"))
	return b.String()
}

func (m Model) line(row int, label, value string, modified bool) string {
	prefix := "  "
	if row == m.cursor {
		prefix = cursorStyle.Render("> ")
	}
	if modified {
		value = modifiedStyle.Render(value)
	}
	return fmt.Sprintf("%s%-34s %s\n", prefix, label, value)
}

func (m Model) inspection() string {
	var b strings.Builder
	v := m.result.Vector
	for i, col := range v.Columns {
		b.WriteString(inspectStyle.Render(fmt.Sprintf("  %-34s %g", col, v.Values[i])) + "\n")
	}
	return b.String()
}

// Run starts the interactive program on the terminal.
func Run(svc *app.PredictionService) error {
	_, err := tea.NewProgram(New(svc), tea.WithAltScreen()).Run()
	return err
}
