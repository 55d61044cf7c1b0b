// Package login is the entry screen: clinicians sign in with email and
// password, patients with their six-digit access code.
package login

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

const (
	roleDoctor = iota
	rolePatient
)

// focus targets
const (
	focusRole = iota
	focusFirst
	focusSecond
)

// LoginScreen authenticates against the demo directory.
type LoginScreen struct {
	dir      *auth.Directory
	clinic   string
	role     components.Tabs
	email    components.TextInput
	password components.TextInput
	code     components.TextInput
	focus    int
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.EscapeHandler = (*LoginScreen)(nil)

// New creates the login screen.
func New(dir *auth.Directory, clinic string) *LoginScreen {
	s := &LoginScreen{
		dir:      dir,
		clinic:   clinic,
		role:     components.NewTabs("Médico", "Paciente"),
		email:    components.NewTextInput("doctor@ejemplo.com", false, 40),
		password: components.NewPasswordInput("contraseña", 40),
		code:     components.NewTextInput("000000", true, auth.CodeLength),
		focus:    focusFirst,
	}
	s.applyFocus()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.applyFocus()
}

func (s *LoginScreen) Title() string {
	return "Iniciar sesión"
}

func (s *LoginScreen) HandlesEscape() bool { return true }

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Siguiente campo"},
		{Key: "←→", Description: "Rol"},
		{Key: "Enter", Description: "Entrar"},
		{Key: "Ctrl+C", Description: "Salir"},
	}
}

func (s *LoginScreen) patient() bool { return s.role.Active == rolePatient }

func (s *LoginScreen) fieldCount() int {
	if s.patient() {
		return 2
	}
	return 3
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, s.forward(msg)
	}

	switch kmsg.String() {
	case "tab", "down":
		s.focus = (s.focus + 1) % s.fieldCount()
		return s, s.applyFocus()
	case "shift+tab", "up":
		s.focus = (s.focus + s.fieldCount() - 1) % s.fieldCount()
		return s, s.applyFocus()
	case "enter":
		if s.focus == focusFirst && !s.patient() {
			s.focus = focusSecond
			return s, s.applyFocus()
		}
		return s, s.submit()
	case "esc":
		s.errMsg = ""
		return s, nil
	}

	if s.focus == focusRole {
		switch kmsg.String() {
		case "left", "right", "space", "h", "l":
			s.toggleRole()
		}
		return s, nil
	}
	return s, s.forward(msg)
}

func (s *LoginScreen) toggleRole() {
	s.role.Next()
	s.errMsg = ""
}

func (s *LoginScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case s.focus == focusRole:
	case s.patient():
		s.code, cmd = s.code.Update(msg)
	case s.focus == focusFirst:
		s.email, cmd = s.email.Update(msg)
	default:
		s.password, cmd = s.password.Update(msg)
	}
	return cmd
}

func (s *LoginScreen) applyFocus() tea.Cmd {
	s.email.Blur()
	s.password.Blur()
	s.code.Blur()
	switch {
	case s.focus == focusRole:
		return nil
	case s.patient():
		return s.code.Focus()
	case s.focus == focusFirst:
		return s.email.Focus()
	default:
		return s.password.Focus()
	}
}

func (s *LoginScreen) submit() tea.Cmd {
	var (
		sess *auth.Session
		err  error
	)
	if s.patient() {
		sess, err = s.dir.LoginPatient(s.code.Value())
	} else {
		sess, err = s.dir.LoginDoctor(s.email.Value(), s.password.Value())
	}
	if err != nil {
		s.errMsg = auth.Message(err)
		return nil
	}
	s.errMsg = ""
	s.password.SetValue("")
	s.code.SetValue("")
	return func() tea.Msg { return screen.LoginMsg{Session: sess} }
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.clinic))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Evaluación cognitiva"))
	b.WriteString("\n\n")

	roleLine := s.role.View()
	if s.focus == focusRole {
		roleLine = theme.Selected.Render("▸ ") + roleLine
	} else {
		roleLine = "  " + roleLine
	}
	b.WriteString(roleLine)
	b.WriteString("\n\n")

	if s.patient() {
		b.WriteString(field("Código de acceso", s.code.View(), s.focus == focusFirst))
		b.WriteString(theme.Hint.Render("  El código de 6 dígitos que le entregó su médico"))
		b.WriteString("\n")
	} else {
		b.WriteString(field("Correo electrónico", s.email.View(), s.focus == focusFirst))
		b.WriteString(field("Contraseña", s.password.View(), s.focus == focusSecond))
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render("  " + s.errMsg))
		b.WriteString("\n")
	}

	card := theme.Card.Width(min(60, width-4)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func field(label, input string, focused bool) string {
	style := theme.Label
	if focused {
		style = theme.Selected
	}
	return "  " + style.Render(label) + "\n  " + input + "\n\n"
}
