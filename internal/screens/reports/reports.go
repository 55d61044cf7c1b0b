// Package reports is the report management screen: filter tabs, search,
// and the generate, download, email and view actions.
package reports

import (
	"context"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	rep "github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/reportview"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type action int

const (
	actionGenerate action = iota
	actionDownload
	actionEmail
)

type loadedMsg struct {
	Filter  store.ReportFilter
	Search  string
	Reports []store.Report
	Emails  map[string]string
	Err     error
}

type preparedMsg struct {
	Action action
	Report *rep.Report
	Err    error
}

// ReportsScreen lists and manages reports.
type ReportsScreen struct {
	deps   screen.Deps
	tabs   components.Tabs
	search components.TextInput
	table  table.Model
	rows   []store.Report
	emails map[string]string
	tmpl   rep.Template
	loaded bool
	errMsg string

	searching bool
	emailing  *rep.Report
	email     components.TextInput
}

var _ screen.Screen = (*ReportsScreen)(nil)
var _ screen.KeyHintProvider = (*ReportsScreen)(nil)
var _ screen.EscapeHandler = (*ReportsScreen)(nil)
var _ screen.Resumer = (*ReportsScreen)(nil)

// New creates the reports screen.
func New(deps screen.Deps) *ReportsScreen {
	labels := make([]string, len(store.ReportFilters))
	for i, f := range store.ReportFilters {
		labels[i] = f.Label()
	}
	tmpl, err := rep.LookupTemplate(deps.Template)
	if err != nil {
		tmpl, _ = rep.LookupTemplate(rep.DefaultTemplate)
	}
	s := &ReportsScreen{
		deps:   deps,
		tabs:   components.NewTabs(labels...),
		search: components.NewTextInput("Buscar por paciente, prueba o médico", false, 0),
		table:  components.NewTable(columns(), nil, 10),
		tmpl:   tmpl,
		email:  components.NewTextInput("correo@ejemplo.com", false, 0),
	}
	s.search.Blur()
	s.email.Blur()
	return s
}

func columns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Paciente", Width: 18},
		{Title: "Prueba", Width: 16},
		{Title: "Fecha", Width: 10},
		{Title: "Punt.", Width: 6},
		{Title: "Médico", Width: 13},
		{Title: "Estado", Width: 10},
	}
}

func (s *ReportsScreen) filter() store.ReportFilter {
	return store.ReportFilters[s.tabs.Active]
}

func (s *ReportsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ReportsScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *ReportsScreen) load() tea.Cmd {
	filter, search := s.filter(), s.search.Value()
	st := s.deps.Store
	return func() tea.Msg {
		ctx := context.Background()
		list, err := st.Reports().List(ctx, filter, search)
		if err != nil {
			return loadedMsg{Filter: filter, Search: search, Err: err}
		}
		patients, err := st.Patients().List(ctx, "")
		if err != nil {
			return loadedMsg{Filter: filter, Search: search, Err: err}
		}
		emails := make(map[string]string, len(patients))
		for _, p := range patients {
			emails[p.ID] = p.Email
		}
		return loadedMsg{Filter: filter, Search: search, Reports: list, Emails: emails}
	}
}

func (s *ReportsScreen) Title() string {
	return "Informes"
}

// HandlesEscape keeps Esc inside the search box and the email prompt.
func (s *ReportsScreen) HandlesEscape() bool { return s.searching || s.emailing != nil }

func (s *ReportsScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.emailing != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Enviar"}, {Key: "Esc", Description: "Cancelar"}}
	case s.searching:
		return []layout.KeyHint{{Key: "Enter", Description: "Aceptar"}, {Key: "Esc", Description: "Cerrar búsqueda"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filtro"},
		{Key: "/", Description: "Buscar"},
		{Key: "Enter", Description: "Ver"},
		{Key: "g", Description: "Generar"},
		{Key: "d", Description: "Descargar"},
		{Key: "e", Description: "Enviar"},
		{Key: "t", Description: "Plantilla"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *ReportsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Filter != s.filter() || msg.Search != s.search.Value() {
			return s, nil // stale
		}
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.rows = msg.Reports
		s.emails = msg.Emails
		s.table.SetRows(toRows(msg.Reports))
		if s.table.Cursor() >= len(msg.Reports) {
			s.table.SetCursor(max(0, len(msg.Reports)-1))
		}
		return s, nil

	case preparedMsg:
		return s.handlePrepared(msg)

	case reportview.GeneratedMsg:
		return s, s.load()

	case tea.KeyMsg:
		switch {
		case s.emailing != nil:
			return s.handleEmailKey(msg)
		case s.searching:
			return s.handleSearchKey(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReportsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if tabs, changed := s.tabs.Update(msg); changed {
		s.tabs = tabs
		return s, s.load()
	}

	switch msg.String() {
	case "/":
		s.searching = true
		s.table.Blur()
		return s, s.search.Focus()
	case "t":
		s.tmpl = nextTemplate(s.tmpl)
		return s, nil
	case "enter":
		if r, ok := s.selected(); ok {
			return s, router.Push(reportview.New(s.deps, r.ID))
		}
		return s, nil
	case "g":
		return s, s.prepare(actionGenerate)
	case "d":
		return s, s.prepare(actionDownload)
	case "e":
		return s, s.prepare(actionEmail)
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func (s *ReportsScreen) handleSearchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
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

func (s *ReportsScreen) handleEmailKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	r := s.emailing
	switch msg.String() {
	case "esc":
		s.emailing = nil
		s.email.Blur()
		return s, nil
	case "enter":
		s.emailing = nil
		s.email.Blur()
		return s, reportview.Email(s.deps, r, strings.TrimSpace(s.email.Value()))
	}
	var cmd tea.Cmd
	s.email, cmd = s.email.Update(msg)
	return s, cmd
}

func (s *ReportsScreen) selected() (store.Report, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.rows) {
		return store.Report{}, false
	}
	return s.rows[i], true
}

// prepare loads the selected report with its history before acting on it.
func (s *ReportsScreen) prepare(a action) tea.Cmd {
	r, ok := s.selected()
	if !ok {
		return nil
	}
	st, clinic := s.deps.Store, s.deps.Clinic
	return func() tea.Msg {
		full, err := rep.Load(context.Background(), st, r.ID)
		if full != nil {
			full.Clinic = clinic
		}
		return preparedMsg{Action: a, Report: full, Err: err}
	}
}

func (s *ReportsScreen) handlePrepared(msg preparedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s, screen.Toast(screen.ToastError, msg.Err.Error())
	}
	t := rep.TemplateFor(s.tmpl.ID, msg.Report)
	switch msg.Action {
	case actionGenerate:
		if s.deps.Reports.Pending(msg.Report.ID) {
			return s, screen.Toast(screen.ToastInfo, "Generando informe "+msg.Report.ID+"...")
		}
		return s, tea.Batch(
			screen.Toast(screen.ToastInfo, "Generando informe "+msg.Report.ID+"..."),
			reportview.Generate(s.deps, msg.Report, t),
		)
	case actionDownload:
		return s, reportview.Download(s.deps, msg.Report, t)
	case actionEmail:
		s.emailing = msg.Report
		s.email.SetValue(s.emails[msg.Report.PatientID])
		return s, s.email.Focus()
	}
	return s, nil
}

func nextTemplate(current rep.Template) rep.Template {
	all := rep.Templates()
	for i, t := range all {
		if t.ID == current.ID {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func toRows(list []store.Report) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, r := range list {
		rows = append(rows, table.Row{r.ID, r.PatientName, r.Test, r.Date, r.ScoreLabel(), r.Doctor, r.Status})
	}
	return rows
}

func (s *ReportsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando informes...", width)
	}

	var b strings.Builder
	b.WriteString("\n  " + s.tabs.View() + "\n\n")

	if s.searching || s.search.Value() != "" {
		b.WriteString("  " + theme.Label.Render("Buscar: ") + s.search.View() + "\n")
	}
	b.WriteString("  " + theme.Label.Render("Plantilla: ") + theme.Body.Render(s.tmpl.Name) +
		theme.Hint.Render("  "+s.tmpl.Description) + "\n")
	if s.emailing != nil {
		b.WriteString("  " + theme.Label.Render("Enviar informe "+s.emailing.ID+" a: ") + s.email.View() + "\n")
	}
	b.WriteString("\n")

	if len(s.rows) == 0 {
		b.WriteString(theme.Hint.Render("  No hay informes que coincidan con la búsqueda."))
		return b.String()
	}

	used := lipgloss.Height(b.String())
	s.table.SetHeight(components.TableHeight(height, used+1))
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.table.View()))
	b.WriteString("\n")

	pending := 0
	for _, r := range s.rows {
		if !r.Generated() {
			pending++
		}
	}
	b.WriteString(theme.Hint.Render("  " + countLine(len(s.rows), pending)))
	return b.String()
}

func countLine(total, pending int) string {
	if pending == 0 {
		return plural(total, "informe", "informes")
	}
	return plural(total, "informe", "informes") + " · " + plural(pending, "pendiente", "pendientes")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
