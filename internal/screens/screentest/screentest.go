// Package screentest provides fixtures for screen tests: a seeded store
// wired into screen.Deps, key helpers and command draining.
package screentest

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/reports"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/store"
)

// Today is the fixed clock used by screen tests.
var Today = time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC)

// Doctor is the clinician session used by screen tests.
func Doctor() *auth.Session {
	return &auth.Session{Role: auth.RoleDoctor, Name: "Dr. Martínez", Specialty: "Neurología", StartedAt: Today}
}

// Patient is the patient session used by screen tests.
func Patient() *auth.Session {
	return &auth.Session{Role: auth.RolePatient, Name: "Paciente", PatientID: "P001", StartedAt: Today}
}

// Deps opens a seeded in-memory store and returns deps bound to a doctor
// session. Exports go to a temporary directory.
func Deps(t *testing.T) screen.Deps {
	t.Helper()

	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog, err := assessment.DefaultCatalog(Today)
	require.NoError(t, err)

	dir, err := auth.DefaultDirectory()
	require.NoError(t, err)

	return screen.Deps{
		Store:     st,
		Catalog:   catalog,
		Directory: dir,
		Reports:   reports.NewService(nil, reports.DefaultConfig(), nil),
		Deliverer: reports.Deliverer{ExportDir: t.TempDir(), Format: reports.FormatMarkdown},
		Template:  reports.DefaultTemplate,
		Session:   Doctor(),
		Now:       func() time.Time { return Today },
	}
}

// Key builds a key press from its string form, e.g. "enter", "esc",
// "ctrl+f", "a".
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "pgdown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case "pgup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	}
	if rest, ok := strings.CutPrefix(s, "ctrl+"); ok {
		return tea.KeyPressMsg{Code: []rune(rest)[0], Mod: tea.ModCtrl}
	}
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

// Send feeds msgs to s in order and returns the final screen and the
// commands produced along the way.
func Send(s screen.Screen, msgs ...tea.Msg) (screen.Screen, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, m := range msgs {
		var cmd tea.Cmd
		s, cmd = s.Update(m)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return s, cmds
}

// Type sends text one rune at a time.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Msgs runs cmd and returns the messages it produces, expanding batches.
// Commands that do not return within a short wait (ticks, cursor blinks)
// are dropped.
func Msgs(cmds ...tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		ch := make(chan tea.Msg, 1)
		go func() { ch <- cmd() }()

		var msg tea.Msg
		select {
		case msg = <-ch:
		case <-time.After(200 * time.Millisecond):
			continue
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			out = append(out, Msgs(batch...)...)
			continue
		}
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}

// Find returns the first message of type T produced by cmds.
func Find[T tea.Msg](cmds ...tea.Cmd) (T, bool) {
	for _, m := range Msgs(cmds...) {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Start runs s.Init and feeds the messages it produces back into s, so
// screens that load asynchronously are ready to inspect.
func Start(s screen.Screen) screen.Screen {
	s, _ = Send(s, Msgs(s.Init())...)
	return s
}
