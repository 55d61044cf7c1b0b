// Package patients lists patients with a search box. The same screen
// serves as the patient picker when a test was chosen first.
package patients

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/assessment"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type loadedMsg struct {
	Search   string
	Patients []store.Patient
	Err      error
}

// PatientsScreen shows the patient table.
type PatientsScreen struct {
	deps  screen.Deps
	apply func(store.Patient) tea.Cmd

	// def is set in picker mode: Enter starts it for the selected patient.
	def *asmt.Definition

	search    components.TextInput
	searching bool
	table     table.Model
	rows      []store.Patient
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*PatientsScreen)(nil)
var _ screen.KeyHintProvider = (*PatientsScreen)(nil)
var _ screen.EscapeHandler = (*PatientsScreen)(nil)

// New creates the patient list. Enter calls apply with the selected patient.
func New(deps screen.Deps, apply func(store.Patient) tea.Cmd) *PatientsScreen {
	s := &PatientsScreen{
		deps:   deps,
		apply:  apply,
		search: components.NewTextInput("Buscar por nombre o diagnóstico", false, 0),
		table:  components.NewTable(columns(), nil, 10),
	}
	s.search.Blur()
	return s
}

// NewPicker creates a patient picker that replaces itself with a run of def.
func NewPicker(deps screen.Deps, def *asmt.Definition) *PatientsScreen {
	s := New(deps, nil)
	s.def = def
	s.apply = func(p store.Patient) tea.Cmd {
		return router.Replace(assessment.New(deps, def, &p))
	}
	return s
}

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Nombre", Width: 20},
		{Title: "Edad", Width: 4},
		{Title: "Diagnóstico", Width: 22},
		{Title: "Última prueba", Width: 13},
		{Title: "Estado", Width: 9},
	}
}

func (s *PatientsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *PatientsScreen) load() tea.Cmd {
	search := s.search.Value()
	repo := s.deps.Store.Patients()
	return func() tea.Msg {
		list, err := repo.List(context.Background(), search)
		return loadedMsg{Search: search, Patients: list, Err: err}
	}
}

func (s *PatientsScreen) Title() string {
	if s.def != nil {
		return "Seleccionar paciente · " + s.def.Short
	}
	return "Pacientes"
}

// HandlesEscape keeps Esc inside the search box.
func (s *PatientsScreen) HandlesEscape() bool { return s.searching }

func (s *PatientsScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{{Key: "Enter", Description: "Aceptar"}, {Key: "Esc", Description: "Cerrar búsqueda"}}
	}
	action := "Aplicar prueba"
	if s.def != nil {
		action = "Iniciar " + s.def.Short
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Navegar"},
		{Key: "/", Description: "Buscar"},
		{Key: "Enter", Description: action},
		{Key: "Esc", Description: "Volver"},
	}
}

// Selected returns the highlighted patient.
func (s *PatientsScreen) Selected() (store.Patient, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.rows) {
		return store.Patient{}, false
	}
	return s.rows[i], true
}

func (s *PatientsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Search != s.search.Value() {
			return s, nil
		}
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.rows = msg.Patients
		s.table.SetRows(toRows(msg.Patients))
		if s.table.Cursor() >= len(msg.Patients) {
			s.table.SetCursor(max(0, len(msg.Patients)-1))
		}
		return s, nil

	case tea.KeyMsg:
		if s.searching {
			return s.handleSearchKey(msg)
		}
		switch msg.String() {
		case "/":
			s.searching = true
			s.table.Blur()
			return s, s.search.Focus()
		case "enter":
			if p, ok := s.Selected(); ok && s.apply != nil {
				return s, s.apply(p)
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PatientsScreen) handleSearchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		s.searching = false
		s.search.Blur()
		s.table.Focus()
		return s, nil
	}
	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != before {
		return s, tea.Batch(cmd, s.load())
	}
	return s, cmd
}

func toRows(list []store.Patient) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, p := range list {
		last := p.LastTest
		if last == "" {
			last = "-"
		}
		rows = append(rows, table.Row{p.ID, p.Name, fmt.Sprint(p.Age), p.Diagnosis, last, p.Status})
	}
	return rows
}

func (s *PatientsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando pacientes...", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.def != nil {
		b.WriteString("  " + theme.Subtitle.Render("Elija el paciente para "+s.def.Name) + "\n\n")
	}
	b.WriteString("  " + theme.Label.Render("Buscar: ") + s.search.View() + "\n\n")

	if len(s.rows) == 0 {
		b.WriteString(theme.Hint.Render("  Ningún paciente coincide con la búsqueda."))
		return b.String()
	}

	used := lipgloss.Height(b.String())
	s.table.SetHeight(components.TableHeight(height, used+3))
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.table.View()))
	b.WriteString("\n\n")

	if p, ok := s.Selected(); ok {
		b.WriteString("  " + detail(p))
	}
	return b.String()
}

func detail(p store.Patient) string {
	status := lipgloss.NewStyle().Foreground(theme.StatusColor(p.Status)).Render(p.Status)
	parts := []string{theme.Body.Bold(true).Render(p.Name), p.Gender}
	if p.Email != "" {
		parts = append(parts, p.Email)
	}
	if p.Phone != "" {
		parts = append(parts, p.Phone)
	}
	return theme.Hint.Render(strings.Join(parts, " · ")+"  ") + status
}
