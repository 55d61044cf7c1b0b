// Package dashboard is the clinician home: clinic metrics, the latest
// evaluations and the main menu.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/patients"
	reportsscreen "github.com/abhisek/cogniscreen/internal/screens/reports"
	"github.com/abhisek/cogniscreen/internal/screens/results"
	"github.com/abhisek/cogniscreen/internal/screens/tests"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

const recentLimit = 5

type loadedMsg struct {
	Summary *store.Summary
	Recent  []store.Result
	Err     error
}

// DashboardScreen is the doctor's home screen.
type DashboardScreen struct {
	deps    screen.Deps
	menu    components.Menu
	summary *store.Summary
	recent  []store.Result
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.EscapeHandler = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates the dashboard for the signed-in clinician.
func New(deps screen.Deps) *DashboardScreen {
	s := &DashboardScreen{deps: deps}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Pacientes", Hint: "buscar y aplicar pruebas", Action: func() tea.Cmd {
			return router.Push(patients.New(deps, func(p store.Patient) tea.Cmd {
				return router.Push(tests.ForPatient(deps, p))
			}))
		}},
		{Label: "Pruebas", Hint: "catálogo de evaluaciones", Action: func() tea.Cmd {
			return router.Push(tests.New(deps))
		}},
		{Label: "Resultados", Hint: "historial y tendencias", Action: func() tea.Cmd {
			return router.Push(results.New(deps))
		}},
		{Label: "Informes", Hint: "generar, descargar y enviar", Action: func() tea.Cmd {
			return router.Push(reportsscreen.New(deps))
		}},
		{Label: "Cerrar sesión", Action: func() tea.Cmd {
			return screen.Logout
		}},
	})
	return s
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.load
}

// Resume reloads the metrics after returning from a run or a report action.
func (s *DashboardScreen) Resume() tea.Cmd {
	return s.load
}

func (s *DashboardScreen) load() tea.Msg {
	ctx := context.Background()
	summary, err := s.deps.Store.Results().Summary(ctx, s.deps.Clock()())
	if err != nil {
		return loadedMsg{Err: err}
	}
	recent, err := s.deps.Store.Results().List(ctx, recentLimit)
	if err != nil {
		return loadedMsg{Err: err}
	}
	return loadedMsg{Summary: summary, Recent: recent}
}

func (s *DashboardScreen) Title() string {
	return "Panel principal"
}

// HandlesEscape keeps Esc from leaving the home screen.
func (s *DashboardScreen) HandlesEscape() bool { return true }

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "r", Description: "Actualizar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.summary = msg.Summary
		s.recent = msg.Recent
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return s, s.load
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando panel...", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	greeting := "Bienvenido"
	if s.deps.Session != nil {
		greeting = "Bienvenido, " + s.deps.Session.Name
	}
	b.WriteString("  " + theme.Title.Render(greeting) + "\n\n")
	b.WriteString(s.renderMetrics(width))
	b.WriteString("\n\n")

	menu := lipgloss.NewStyle().Width(40).Render(s.menu.View())
	recent := s.renderRecent(max(30, width-46))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", menu, recent))
	return b.String()
}

func (s *DashboardScreen) renderMetrics(width int) string {
	sum := s.summary
	cards := []struct {
		label string
		value string
	}{
		{"Pacientes", fmt.Sprintf("%d", sum.Patients)},
		{"Evaluaciones", fmt.Sprintf("%d", sum.Assessments)},
		{"Este mes", fmt.Sprintf("%d", sum.ThisMonth)},
		{"Informes pendientes", fmt.Sprintf("%d", sum.PendingReports)},
		{"Puntuación media", fmt.Sprintf("%.0f%%", sum.AveragePercent)},
	}

	cardWidth := max(14, (width-4)/len(cards)-2)
	rendered := make([]string, 0, len(cards))
	for i, c := range cards {
		value := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
		if i == len(cards)-1 {
			value = value.Foreground(theme.ScoreColor(sum.AveragePercent))
		}
		if i == 3 && sum.PendingReports > 0 {
			value = value.Foreground(theme.Warning)
		}
		rendered = append(rendered, theme.Card.Width(cardWidth).Render(
			value.Render(c.value)+"\n"+theme.Subtitle.Render(c.label)))
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (s *DashboardScreen) renderRecent(width int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render("Evaluaciones recientes"))
	b.WriteString("\n")
	if len(s.recent) == 0 {
		b.WriteString(theme.Hint.Render("Todavía no hay evaluaciones."))
		return b.String()
	}
	for _, r := range s.recent {
		score := lipgloss.NewStyle().Foreground(theme.ScoreColor(r.Percent())).
			Render(fmt.Sprintf("%d/%d", r.Score, r.MaxScore))
		line := fmt.Sprintf("%s  %-18s %-16s ", r.Date, truncate(r.PatientName, 18), truncate(r.Test, 16))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).MaxWidth(width).Render(line + score))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
