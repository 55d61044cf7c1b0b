// Package result shows the outcome of a finished administration.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/reportview"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// ResultScreen displays the score breakdown of one run.
type ResultScreen struct {
	def     *assessment.Definition
	outcome *runner.Outcome
	patient *store.Patient
	report  *store.Report
	menu    components.Menu
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.EscapeHandler = (*ResultScreen)(nil)

// New creates the result screen. report is the pending report created for
// the run, nil when nothing was recorded.
func New(deps screen.Deps, def *assessment.Definition, outcome *runner.Outcome, patient *store.Patient, report *store.Report) *ResultScreen {
	s := &ResultScreen{def: def, outcome: outcome, patient: patient, report: report}

	var items []components.MenuItem
	if report != nil {
		id := report.ID
		items = append(items, components.MenuItem{Label: "Ver informe", Action: func() tea.Cmd {
			if !deps.Session.IsDoctor() {
				return router.Replace(reportview.NewReadOnly(deps, id))
			}
			return router.Replace(reportview.New(deps, id))
		}})
	}
	items = append(items, components.MenuItem{Label: "Volver al inicio", Action: func() tea.Cmd {
		return router.PopToRoot
	}})
	s.menu = components.NewMenu(items)
	return s
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Resultado"
}

// HandlesEscape sends Esc home instead of back into the finished run.
func (s *ResultScreen) HandlesEscape() bool { return true }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Seleccionar"},
		{Key: "Esc", Description: "Inicio"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if kmsg.String() == "esc" {
		return s, router.PopToRoot
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultScreen) View(width, height int) string {
	o := s.outcome
	if o == nil {
		return ""
	}
	center := func(str string) string { return layout.Centered(str, width) }

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render("Evaluación completada")))
	b.WriteString("\n")
	sub := s.def.Name
	if s.patient != nil {
		sub = s.patient.Name + " · " + sub
	}
	b.WriteString(center(theme.Subtitle.Render(sub)))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().Bold(true).Foreground(theme.ScoreColor(o.Percent())).
		Render(fmt.Sprintf("%d / %d", o.Total, o.Max))
	b.WriteString(center(score + theme.Subtitle.Render(fmt.Sprintf("   (%.0f%%)", o.Percent()))))
	b.WriteString("\n")

	secs := int(o.Duration().Seconds())
	info := fmt.Sprintf("Duración %d:%02d", secs/60, secs%60)
	if o.Reason == runner.ReasonTimeout {
		info += " · finalizada por tiempo agotado"
	}
	b.WriteString(center(theme.Hint.Render(info)))
	b.WriteString("\n\n")

	barWidth := min(70, width-8)
	labelWidth := 0
	for _, sec := range o.Sections {
		labelWidth = max(labelWidth, lipgloss.Width(sec.Title)+2)
	}
	for _, sec := range o.Sections {
		if sec.Max == 0 {
			continue
		}
		b.WriteString(center(components.ScoreBar(sec.Title, sec.Score, sec.Max, labelWidth, barWidth)))
		b.WriteString("\n")
	}

	if n := len(o.Unverified); n > 0 {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Warning).Render(
			fmt.Sprintf("%d respuesta(s) de opción única puntuadas sin verificar: %s", n, strings.Join(o.Unverified, ", ")))))
		b.WriteString("\n")
	}

	if s.report != nil {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Informe %s creado como pendiente", s.report.ID))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center(s.menu.View()))
	return b.String()
}
