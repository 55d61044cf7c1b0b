package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/cogniscreen/internal/auth"
	"github.com/abhisek/cogniscreen/internal/router"
	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/screens/dashboard"
	"github.com/abhisek/cogniscreen/internal/screens/login"
	"github.com/abhisek/cogniscreen/internal/screens/patienthome"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// toastTTL is how long a toast stays in the footer.
const toastTTL = 3 * time.Second

type toastExpiredMsg struct{ seq int }

// AppModel is the root Bubble Tea model. It owns the session: screens get
// it through screen.Deps and never keep their own copy.
type AppModel struct {
	router *router.Router
	deps   screen.Deps

	toast      string
	toastLevel screen.ToastLevel
	toastSeq   int

	width  int
	height int
}

// newAppModel creates an AppModel on the login screen.
func newAppModel(deps screen.Deps) AppModel {
	deps.Session = nil
	return AppModel{
		router: router.New(login.New(deps.Directory, deps.Clinic)),
		deps:   deps,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// Session returns the signed-in session, nil before login.
func (m AppModel) Session() *auth.Session {
	return m.deps.Session
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.LoginMsg:
		return m.login(msg.Session)

	case screen.LogoutMsg:
		return m.logout()

	case screen.ToastMsg:
		return m.showToast(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case screen.Notifier:
		var toastCmd tea.Cmd
		m, toastCmd = m.showToast(msg.Notification())
		return m, tea.Batch(toastCmd, m.router.Update(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) login(s *auth.Session) (AppModel, tea.Cmd) {
	m.deps = m.deps.WithSession(s)
	m.deps.Log().Info("login", zap.String("role", string(s.Role)), zap.String("name", s.Name))

	var home screen.Screen
	if s.IsDoctor() {
		home = dashboard.New(m.deps)
	} else {
		home = patienthome.New(m.deps)
	}
	return m, m.router.Reset(home)
}

func (m AppModel) logout() (AppModel, tea.Cmd) {
	if s := m.deps.Session; s != nil {
		m.deps.Log().Info("logout", zap.String("role", string(s.Role)), zap.String("name", s.Name),
			zap.Duration("session", m.deps.Clock()().Sub(s.StartedAt)))
	}
	m.deps = m.deps.WithSession(nil)
	return m, m.router.Reset(login.New(m.deps.Directory, m.deps.Clinic))
}

func (m AppModel) showToast(t screen.ToastMsg) (AppModel, tea.Cmd) {
	m.toastSeq++
	m.toast = t.Text
	m.toastLevel = t.Level
	seq := m.toastSeq
	return m, tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m AppModel) renderToast() string {
	if m.toast == "" {
		return ""
	}
	c := theme.Secondary
	switch m.toastLevel {
	case screen.ToastSuccess:
		c = theme.Success
	case screen.ToastError:
		c = theme.Error
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(m.toast)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(m.deps.Clinic, title, m.deps.Session.Profile(), m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Volver"},
			{Key: "Ctrl+C", Description: "Salir"},
		}
	}
	footer := layout.RenderFooter(hints, m.renderToast(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(0, m.height-headerHeight-footerHeight)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(deps screen.Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
