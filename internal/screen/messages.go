package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cogniscreen/internal/auth"
)

// LoginMsg is sent when a user authenticated. The app takes ownership of
// the session and swaps the stack to the role's home screen.
type LoginMsg struct {
	Session *auth.Session
}

// LogoutMsg drops the session and returns to the login screen.
type LogoutMsg struct{}

// ToastLevel selects the toast colour.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// ToastMsg shows a short advisory message in the footer.
type ToastMsg struct {
	Text  string
	Level ToastLevel
}

// Toast returns a command that shows text as a toast.
func Toast(level ToastLevel, text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text, Level: level} }
}

// Logout returns a command that ends the session.
func Logout() tea.Msg { return LogoutMsg{} }

// Notifier is implemented by messages that also announce themselves with a
// toast, whichever screen is active when they arrive.
type Notifier interface {
	Notification() ToastMsg
}
