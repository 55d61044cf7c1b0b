package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. Items can also be triggered by their
// 1-based number.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "enter":
		return m, m.activate(m.Selected)
	default:
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.Items) && !m.Items[n-1].Disabled {
			m.Selected = n - 1
			return m, m.activate(n - 1)
		}
	}
	return m, nil
}

// step moves the selection to the next enabled item in direction dir,
// staying put at either end.
func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	hint := lipgloss.NewStyle().Foreground(theme.TextDim)
	for i, item := range m.Items {
		marker, style := "  ", theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Disabled
		case i == m.Selected:
			marker, style = "▸ ", theme.Selected
		}
		b.WriteString(style.Render("  " + marker + item.Label))
		if item.Hint != "" {
			b.WriteString(hint.Render("  " + item.Hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}
