// Package assessment is the runner screen: it administers one definition
// section by section, shows progress and the countdown, and records the
// outcome when the run completes manually or on timeout.
package assessment

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/result"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
)

// AssessmentScreen implements screen.Screen for a running assessment.
type AssessmentScreen struct {
	deps    screen.Deps
	def     *asmt.Definition
	patient *store.Patient
	run     *runner.Runner
	fields  map[string]*field

	focus       int // index into the current section's leaves
	quitConfirm bool
	finishing   bool
	closed      bool
	errMsg      string
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ screen.Closer = (*AssessmentScreen)(nil)
var _ screen.EscapeHandler = (*AssessmentScreen)(nil)

// New starts administering def. patient may be nil, in which case the
// outcome is shown but not recorded.
func New(deps screen.Deps, def *asmt.Definition, patient *store.Patient) *AssessmentScreen {
	opts := runner.Options{
		TimeLimit: deps.TimeLimit,
		Now:       deps.Clock(),
		Logger:    deps.Log(),
	}
	if patient != nil {
		opts.PatientID = patient.ID
	}

	s := &AssessmentScreen{
		deps:    deps,
		def:     def,
		patient: patient,
		run:     runner.New(def, opts),
		fields:  make(map[string]*field),
	}
	for _, q := range def.Leaves() {
		s.fields[q.ID] = newField(q)
	}
	return s
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return tea.Batch(s.focusCurrent(), s.tick())
}

func (s *AssessmentScreen) Title() string {
	return s.def.Name
}

// HandlesEscape routes Esc to the quit confirmation.
func (s *AssessmentScreen) HandlesEscape() bool { return true }

// Close stops the countdown when the screen leaves the stack.
func (s *AssessmentScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.run.Stop()
}

// Runner exposes the run being administered.
func (s *AssessmentScreen) Runner() *runner.Runner { return s.run }

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "S", Description: "Abandonar"},
			{Key: "N", Description: "Continuar"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Pregunta"},
		{Key: "Enter", Description: "Siguiente"},
	}
	if f := s.current(); f != nil && !f.textual() {
		hints = append(hints, layout.KeyHint{Key: "Espacio", Description: "Marcar"})
	}
	return append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Sección"},
		layout.KeyHint{Key: "Ctrl+F", Description: "Finalizar"},
		layout.KeyHint{Key: "Esc", Description: "Salir"},
	)
}

func (s *AssessmentScreen) tick() tea.Cmd {
	runID := s.run.RunID()
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{RunID: runID, At: t}
	})
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)

	case completedMsg:
		return s.handleCompleted(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if f := s.current(); f != nil && !s.run.Completed() {
		changed, cmd := f.update(msg)
		if changed {
			s.record(f)
		}
		return s, cmd
	}
	return s, nil
}

func (s *AssessmentScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	// A stopped or finished run lets its timer lapse.
	if msg.RunID != s.run.RunID() || s.closed || s.run.Completed() {
		return s, nil
	}
	if s.run.Tick() {
		s.quitConfirm = false
		return s, s.finish()
	}
	return s, s.tick()
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.run.Completed() {
		return s, nil
	}

	if s.quitConfirm {
		switch msg.String() {
		case "s", "y", "S", "Y":
			s.Close()
			s.deps.Log().Info("assessment abandoned",
				zap.String("run_id", s.run.RunID()),
				zap.String("definition", s.def.ID),
				zap.Int("progress", s.run.Progress()))
			return s, router.Pop
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	switch msg.String() {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "up", "shift+tab":
		return s, s.moveFocus(-1)
	case "down", "tab":
		return s, s.moveFocus(+1)
	case "enter":
		if s.focus < len(s.leaves())-1 {
			return s, s.moveFocus(+1)
		}
		return s, s.nextSection()
	case "pgdown", "ctrl+n":
		return s, s.nextSection()
	case "pgup", "ctrl+p":
		if s.run.Index() > 0 {
			s.run.GoPrevious()
			s.focus = 0
			return s, s.focusCurrent()
		}
		return s, nil
	case "ctrl+f":
		s.run.Finish()
		return s, s.finish()
	}

	f := s.current()
	if f == nil {
		return s, nil
	}
	changed, cmd := f.update(msg)
	if changed {
		s.record(f)
	}
	return s, cmd
}

func (s *AssessmentScreen) nextSection() tea.Cmd {
	s.run.GoNext()
	if s.run.Completed() {
		return s.finish()
	}
	s.focus = 0
	return s.focusCurrent()
}

func (s *AssessmentScreen) leaves() []asmt.Question {
	return asmt.SectionLeaves(s.run.Current())
}

func (s *AssessmentScreen) current() *field {
	leaves := s.leaves()
	if s.focus < 0 || s.focus >= len(leaves) {
		return nil
	}
	return s.fields[leaves[s.focus].ID]
}

func (s *AssessmentScreen) moveFocus(delta int) tea.Cmd {
	n := len(s.leaves())
	if n == 0 {
		return nil
	}
	s.focus = max(0, min(s.focus+delta, n-1))
	return s.focusCurrent()
}

func (s *AssessmentScreen) focusCurrent() tea.Cmd {
	for _, f := range s.fields {
		f.blur()
	}
	if f := s.current(); f != nil {
		return f.focus()
	}
	return nil
}

func (s *AssessmentScreen) record(f *field) {
	if err := s.run.RecordResponse(f.q.ID, f.value()); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.errMsg = ""
}

// finish stores the completed run and hands over to the result screen.
func (s *AssessmentScreen) finish() tea.Cmd {
	if s.finishing {
		return nil
	}
	s.finishing = true

	outcome, err := s.run.Outcome()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if s.patient == nil || s.deps.Store == nil {
		return func() tea.Msg { return completedMsg{Outcome: outcome} }
	}

	completion := reports.NewCompletion(outcome, s.def, s.administeredBy())
	st := s.deps.Store
	return func() tea.Msg {
		rep, err := st.RecordCompletion(context.Background(), completion)
		return completedMsg{Outcome: outcome, Report: rep, Err: err}
	}
}

func (s *AssessmentScreen) administeredBy() string {
	if doctor := s.deps.Doctor(); doctor != "" {
		return doctor
	}
	return "Autoevaluación"
}

func (s *AssessmentScreen) handleCompleted(msg completedMsg) (screen.Screen, tea.Cmd) {
	next := result.New(s.deps, s.def, msg.Outcome, s.patient, msg.Report)
	if msg.Err != nil {
		s.deps.Log().Error("record completion failed",
			zap.String("run_id", msg.Outcome.RunID), zap.Error(msg.Err))
		return s, tea.Batch(
			router.Replace(next),
			screen.Toast(screen.ToastError, "No se pudo guardar el resultado"),
		)
	}
	return s, router.Replace(next)
}
