// Package tests is the test catalog. Available tests are applied either
// to a patient chosen beforehand or to one picked next.
package tests

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/assessment"
	"github.com/abhisek/cogniscreen/internal/screens/patients"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type loadedMsg struct {
	Search string
	Tests  []store.TestEntry
	Err    error
}

// TestsScreen shows the catalog.
type TestsScreen struct {
	deps    screen.Deps
	patient *store.Patient

	search    components.TextInput
	searching bool
	table     table.Model
	rows      []store.TestEntry
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*TestsScreen)(nil)
var _ screen.KeyHintProvider = (*TestsScreen)(nil)
var _ screen.EscapeHandler = (*TestsScreen)(nil)

// New creates the catalog; Enter on a test asks for the patient next.
func New(deps screen.Deps) *TestsScreen {
	s := &TestsScreen{
		deps:   deps,
		search: components.NewTextInput("Buscar por nombre, tipo o estado", false, 0),
		table:  components.NewTable(columns(), nil, 10),
	}
	s.search.Blur()
	return s
}

// ForPatient creates the catalog as a test picker for p.
func ForPatient(deps screen.Deps, p store.Patient) *TestsScreen {
	s := New(deps)
	s.patient = &p
	return s
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Prueba", Width: 34},
		{Title: "Tipo", Width: 12},
		{Title: "Estado", Width: 14},
		{Title: "Actualizada", Width: 11},
	}
}

func (s *TestsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *TestsScreen) load() tea.Cmd {
	search := s.search.Value()
	repo := s.deps.Store.Tests()
	return func() tea.Msg {
		list, err := repo.List(context.Background(), search)
		return loadedMsg{Search: search, Tests: list, Err: err}
	}
}

func (s *TestsScreen) Title() string {
	if s.patient != nil {
		return "Aplicar prueba · " + s.patient.Name
	}
	return "Pruebas"
}

func (s *TestsScreen) HandlesEscape() bool { return s.searching }

func (s *TestsScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{{Key: "Enter", Description: "Aceptar"}, {Key: "Esc", Description: "Cerrar búsqueda"}}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Navegar"},
		{Key: "/", Description: "Buscar"},
		{Key: "Enter", Description: "Aplicar"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *TestsScreen) selected() (store.TestEntry, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.rows) {
		return store.TestEntry{}, false
	}
	return s.rows[i], true
}

func (s *TestsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.rows = msg.Tests
		s.table.SetRows(toRows(msg.Tests))
		if s.table.Cursor() >= len(msg.Tests) {
			s.table.SetCursor(max(0, len(msg.Tests)-1))
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
			return s, s.apply()
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TestsScreen) apply() tea.Cmd {
	entry, ok := s.selected()
	if !ok {
		return nil
	}
	if !entry.Available() {
		return screen.Toast(screen.ToastInfo, fmt.Sprintf("%s no está disponible todavía", entry.Name))
	}
	def, ok := s.deps.Catalog.Lookup(entry.DefinitionID)
	if !ok {
		return screen.Toast(screen.ToastError, fmt.Sprintf("No se encontró la definición %q", entry.DefinitionID))
	}
	if s.patient != nil {
		return router.Replace(assessment.New(s.deps, def, s.patient))
	}
	return router.Push(patients.NewPicker(s.deps, def))
}

func (s *TestsScreen) handleSearchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
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

func toRows(list []store.TestEntry) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, t := range list {
		rows = append(rows, table.Row{t.Name, t.Kind, t.Status, t.Updated})
	}
	return rows
}

func (s *TestsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando pruebas...", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.patient != nil {
		b.WriteString("  " + theme.Subtitle.Render("Paciente: "+s.patient.Name+" ("+s.patient.ID+")") + "\n\n")
	}
	b.WriteString("  " + theme.Label.Render("Buscar: ") + s.search.View() + "\n\n")

	if len(s.rows) == 0 {
		b.WriteString(theme.Hint.Render("  Ninguna prueba coincide con la búsqueda."))
		return b.String()
	}

	used := lipgloss.Height(b.String())
	s.table.SetHeight(components.TableHeight(height, used+3))
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.table.View()))
	b.WriteString("\n\n")

	if t, ok := s.selected(); ok {
		if t.Available() {
			b.WriteString(theme.Hint.Render("  Pulse Enter para aplicar " + t.Name))
		} else {
			b.WriteString(theme.ErrorText.Render("  " + t.Name + " está en desarrollo y no puede aplicarse"))
		}
	}
	return b.String()
}
