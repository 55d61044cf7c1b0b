// Package patientreports lists the signed-in patient's own reports.
package patientreports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/reportview"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type loadedMsg struct {
	Reports []store.Report
	Err     error
}

// PatientReportsScreen lists one patient's reports with their notes.
type PatientReportsScreen struct {
	deps   screen.Deps
	table  table.Model
	rows   []store.Report
	loaded bool
	errMsg string
}

var _ screen.Screen = (*PatientReportsScreen)(nil)
var _ screen.KeyHintProvider = (*PatientReportsScreen)(nil)

// New creates the list for the session's patient.
func New(deps screen.Deps) *PatientReportsScreen {
	return &PatientReportsScreen{
		deps: deps,
		table: components.NewTable([]table.Column{
			{Title: "Fecha", Width: 10},
			{Title: "Prueba", Width: 22},
			{Title: "Punt.", Width: 6},
			{Title: "Médico", Width: 16},
			{Title: "Estado", Width: 10},
		}, nil, 8),
	}
}

func (s *PatientReportsScreen) Init() tea.Cmd {
	return s.load
}

func (s *PatientReportsScreen) load() tea.Msg {
	if s.deps.Session == nil || s.deps.Session.PatientID == "" {
		return loadedMsg{Err: errors.New("no patient session")}
	}
	list, err := s.deps.Store.Reports().ListByPatient(context.Background(), s.deps.Session.PatientID)
	return loadedMsg{Reports: list, Err: err}
}

func (s *PatientReportsScreen) Title() string {
	return "Mis informes"
}

func (s *PatientReportsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Navegar"},
		{Key: "Enter", Description: "Ver"},
		{Key: "c", Description: "Solicitar copia"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (s *PatientReportsScreen) selected() (store.Report, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.rows) {
		return store.Report{}, false
	}
	return s.rows[i], true
}

func (s *PatientReportsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.rows = msg.Reports
		rows := make([]table.Row, 0, len(msg.Reports))
		for _, r := range msg.Reports {
			rows = append(rows, table.Row{r.Date, r.Test, r.ScoreLabel(), r.Doctor, r.Status})
		}
		s.table.SetRows(rows)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if r, ok := s.selected(); ok {
				return s, router.Push(reportview.NewReadOnly(s.deps, r.ID))
			}
			return s, nil
		case "c":
			return s, s.requestCopy()
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd
	}
	return s, nil
}

// requestCopy records the request; the clinic follows up outside the app.
func (s *PatientReportsScreen) requestCopy() tea.Cmd {
	r, ok := s.selected()
	if !ok {
		return nil
	}
	s.deps.Log().Info("report copy requested",
		zap.String("report", r.ID),
		zap.String("patient", r.PatientID),
	)
	return screen.Toast(screen.ToastSuccess, fmt.Sprintf("Solicitud de copia del informe %s enviada", r.ID))
}

func (s *PatientReportsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando informes...", width)
	}
	if len(s.rows) == 0 {
		return layout.Message("Todavía no tiene informes.", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	s.table.SetHeight(min(len(s.rows)+1, components.TableHeight(height, 10)))
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.table.View()))
	b.WriteString("\n\n")

	if r, ok := s.selected(); ok {
		b.WriteString("  " + theme.Label.Render("Notas del médico") + "\n")
		notes := r.Notes
		if notes == "" {
			notes = "Sin notas."
		}
		b.WriteString(lipgloss.NewStyle().Width(max(20, width-6)).PaddingLeft(2).
			Foreground(theme.Text).Render(notes))
		if !r.Generated() {
			b.WriteString("\n\n" + theme.Hint.Render("  El informe está pendiente de generación por su médico."))
		}
	}
	return b.String()
}
