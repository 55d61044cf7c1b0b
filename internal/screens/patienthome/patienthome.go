// Package patienthome is the patient's landing screen: start the
// self-administered MMSE, browse their reports, or sign out.
package patienthome

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/assessment"
	"github.com/abhisek/cogniscreen/internal/screens/patientreports"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type loadedMsg struct {
	Patient *store.Patient
	Results []store.Result
	Err     error
}

// PatientHomeScreen is the home of a patient session.
type PatientHomeScreen struct {
	deps    screen.Deps
	menu    components.Menu
	patient *store.Patient
	results []store.Result
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*PatientHomeScreen)(nil)
var _ screen.KeyHintProvider = (*PatientHomeScreen)(nil)
var _ screen.EscapeHandler = (*PatientHomeScreen)(nil)
var _ screen.Resumer = (*PatientHomeScreen)(nil)

// New creates the patient home for deps.Session.
func New(deps screen.Deps) *PatientHomeScreen {
	s := &PatientHomeScreen{deps: deps}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Realizar autoevaluación", Hint: "Mini-Mental (MMSE)", Action: s.startSelfTest},
		{Label: "Mis informes", Hint: "consultar y solicitar copias", Action: func() tea.Cmd {
			return router.Push(patientreports.New(deps))
		}},
		{Label: "Cerrar sesión", Action: func() tea.Cmd {
			return screen.Logout
		}},
	})
	return s
}

func (s *PatientHomeScreen) startSelfTest() tea.Cmd {
	if s.patient == nil {
		return screen.Toast(screen.ToastError, "No se encontraron sus datos de paciente")
	}
	def, ok := s.deps.Catalog.Lookup(asmt.SelfMMSEID)
	if !ok {
		return screen.Toast(screen.ToastError, "La autoevaluación no está disponible")
	}
	p := *s.patient
	return router.Push(assessment.New(s.deps, def, &p))
}

func (s *PatientHomeScreen) Init() tea.Cmd {
	return s.load
}

// Resume refreshes the history after a self test.
func (s *PatientHomeScreen) Resume() tea.Cmd {
	return s.load
}

func (s *PatientHomeScreen) load() tea.Msg {
	if s.deps.Session == nil {
		return loadedMsg{Err: store.ErrNotFound}
	}
	ctx := context.Background()
	p, err := s.deps.Store.Patients().Get(ctx, s.deps.Session.PatientID)
	if err != nil {
		return loadedMsg{Err: err}
	}
	results, err := s.deps.Store.Results().ListByPatient(ctx, p.ID)
	if err != nil {
		return loadedMsg{Err: err}
	}
	return loadedMsg{Patient: p, Results: results}
}

func (s *PatientHomeScreen) Title() string {
	return "Área del paciente"
}

// HandlesEscape keeps Esc from leaving the home screen.
func (s *PatientHomeScreen) HandlesEscape() bool { return true }

func (s *PatientHomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Abrir"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (s *PatientHomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.patient = msg.Patient
		s.results = msg.Results
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PatientHomeScreen) View(width, height int) string {
	if !s.loaded {
		return layout.Message("Cargando...", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("  No se pudieron cargar sus datos: "+s.errMsg) + "\n\n")
	}
	if s.patient != nil {
		b.WriteString("  " + theme.Title.Render("Hola, "+s.patient.Name) + "\n")
		b.WriteString("  " + theme.Subtitle.Render(fmt.Sprintf("Código de paciente %s", s.patient.ID)) + "\n\n")
	}

	menu := lipgloss.NewStyle().Width(44).Render(s.menu.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", menu, s.renderHistory()))
	return b.String()
}

func (s *PatientHomeScreen) renderHistory() string {
	var b strings.Builder
	b.WriteString(theme.Label.Render("Mis evaluaciones") + "\n")
	if len(s.results) == 0 {
		b.WriteString(theme.Hint.Render("Todavía no ha realizado ninguna evaluación."))
		return b.String()
	}
	for _, r := range s.results {
		score := lipgloss.NewStyle().Foreground(theme.ScoreColor(r.Percent())).
			Render(fmt.Sprintf("%d/%d", r.Score, r.MaxScore))
		b.WriteString(theme.Body.Render(fmt.Sprintf("%s  %-22s ", r.Date, r.Test)) + score + "\n")
	}
	return b.String()
}
