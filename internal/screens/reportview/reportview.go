// Package reportview shows one rendered report in a scrollable viewport and
// carries the report actions shared with the reports list.
package reportview

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

type loadedMsg struct {
	Report *reports.Report
	Email  string
	Err    error
}

// ReportViewScreen displays a report.
type ReportViewScreen struct {
	deps     screen.Deps
	id       string
	report   *reports.Report
	tmpl     reports.Template
	viewport viewport.Model

	// readOnly hides the clinician actions (patient view).
	readOnly bool

	emailing bool
	email    components.TextInput

	loaded bool
	errMsg string
}

var _ screen.Screen = (*ReportViewScreen)(nil)
var _ screen.KeyHintProvider = (*ReportViewScreen)(nil)
var _ screen.EscapeHandler = (*ReportViewScreen)(nil)

// New creates a viewer for report id with the clinician actions.
func New(deps screen.Deps, id string) *ReportViewScreen {
	return &ReportViewScreen{
		deps:     deps,
		id:       id,
		viewport: viewport.New(),
		email:    components.NewTextInput("correo@ejemplo.com", false, 0),
	}
}

// NewReadOnly creates a viewer without generate, download or email actions.
func NewReadOnly(deps screen.Deps, id string) *ReportViewScreen {
	s := New(deps, id)
	s.readOnly = true
	return s
}

func (s *ReportViewScreen) Init() tea.Cmd {
	return s.load
}

func (s *ReportViewScreen) load() tea.Msg {
	ctx := context.Background()
	r, err := reports.Load(ctx, s.deps.Store, s.id)
	if err != nil {
		return loadedMsg{Err: err}
	}
	r.Clinic = s.deps.Clinic

	var email string
	p, err := s.deps.Store.Patients().Get(ctx, r.PatientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return loadedMsg{Err: err}
	}
	if p != nil {
		email = p.Email
	}
	return loadedMsg{Report: r, Email: email}
}

func (s *ReportViewScreen) Title() string {
	return "Informe " + s.id
}

// HandlesEscape lets Esc close the email prompt first.
func (s *ReportViewScreen) HandlesEscape() bool { return s.emailing }

func (s *ReportViewScreen) KeyHints() []layout.KeyHint {
	if s.emailing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Enviar"},
			{Key: "Esc", Description: "Cancelar"},
		}
	}
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Desplazar"}}
	if !s.readOnly {
		hints = append(hints,
			layout.KeyHint{Key: "t", Description: "Plantilla"},
			layout.KeyHint{Key: "g", Description: "Generar"},
			layout.KeyHint{Key: "d", Description: "Descargar"},
			layout.KeyHint{Key: "e", Description: "Enviar"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Volver"})
}

func (s *ReportViewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.report = msg.Report
		s.tmpl = reports.TemplateFor(s.deps.Template, s.report)
		if rec, ok := s.templateOfRecord(); ok {
			s.tmpl = rec
		}
		s.email.SetValue(msg.Email)
		return s, nil

	case GeneratedMsg:
		if s.report != nil && msg.ReportID == s.report.ID && msg.SaveErr == nil {
			s.report.Narrative = msg.Narrative
			s.report.Template = msg.Template
			s.report.Status = store.ReportGenerated
		}
		return s, nil

	case tea.KeyMsg:
		if s.report == nil {
			return s, nil
		}
		if s.emailing {
			return s.handleEmailKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.emailing {
		var cmd tea.Cmd
		s.email, cmd = s.email.Update(msg)
		return s, cmd
	}
	return s, nil
}

// templateOfRecord is the template the report was generated with, if any.
func (s *ReportViewScreen) templateOfRecord() (reports.Template, bool) {
	if s.report.Template == "" {
		return reports.Template{}, false
	}
	t, err := reports.LookupTemplate(s.report.Template)
	if err != nil || !t.Applies(s.report.DefinitionID) {
		return reports.Template{}, false
	}
	return t, true
}

func (s *ReportViewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if !s.readOnly {
		switch msg.String() {
		case "t":
			s.tmpl = NextTemplate(s.report, s.tmpl)
			return s, nil
		case "g":
			if s.deps.Reports.Pending(s.report.ID) {
				return s, screen.Toast(screen.ToastInfo, "Generando informe...")
			}
			return s, tea.Batch(
				screen.Toast(screen.ToastInfo, "Generando informe..."),
				Generate(s.deps, s.report, s.tmpl),
			)
		case "d":
			return s, Download(s.deps, s.report, s.tmpl)
		case "e":
			s.emailing = true
			return s, s.email.Focus()
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ReportViewScreen) handleEmailKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.emailing = false
		s.email.Blur()
		return s, nil
	case "enter":
		s.emailing = false
		s.email.Blur()
		return s, Email(s.deps, s.report, strings.TrimSpace(s.email.Value()))
	}
	var cmd tea.Cmd
	s.email, cmd = s.email.Update(msg)
	return s, cmd
}

func (s *ReportViewScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded || s.report == nil {
		return layout.Message("Cargando informe...", width)
	}

	var top strings.Builder
	top.WriteString("  " + theme.Label.Render("Plantilla: ") + theme.Body.Render(s.tmpl.Name))
	status := lipgloss.NewStyle().Foreground(theme.StatusColor(s.report.Status)).Render(s.report.Status)
	if s.deps.Reports.Pending(s.report.ID) {
		status = lipgloss.NewStyle().Foreground(theme.Accent).Render("Generando...")
	}
	top.WriteString("   " + theme.Label.Render("Estado: ") + status)
	if s.emailing {
		top.WriteString("\n  " + theme.Label.Render("Enviar a: ") + s.email.View())
	}

	header := top.String()
	s.viewport.SetWidth(width - 2)
	s.viewport.SetHeight(max(3, height-lipgloss.Height(header)-1))
	s.viewport.SetContent(reports.Render(s.report, s.tmpl, width-6))

	return header + "\n" + lipgloss.NewStyle().PaddingLeft(2).Render(s.viewport.View())
}
