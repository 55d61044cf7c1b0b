package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// Tabs is a horizontal selector such as the report filters or the login
// role toggle. Tab and Shift+Tab cycle.
type Tabs struct {
	Labels []string
	Active int
}

// NewTabs creates tabs with the first label active.
func NewTabs(labels ...string) Tabs {
	return Tabs{Labels: labels}
}

// Update cycles the active tab. It reports whether the active tab changed.
func (t Tabs) Update(msg tea.Msg) (Tabs, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(t.Labels) == 0 {
		return t, false
	}
	switch kmsg.String() {
	case "tab":
		t.Next()
		return t, true
	case "shift+tab":
		t.Prev()
		return t, true
	}
	return t, false
}

// Next activates the following tab, wrapping around.
func (t *Tabs) Next() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active + 1) % len(t.Labels)
	}
}

// Prev activates the preceding tab, wrapping around.
func (t *Tabs) Prev() {
	if len(t.Labels) > 0 {
		t.Active = (t.Active + len(t.Labels) - 1) % len(t.Labels)
	}
}

// View renders the tabs on one line.
func (t Tabs) View() string {
	parts := make([]string, 0, len(t.Labels))
	for i, l := range t.Labels {
		if i == t.Active {
			parts = append(parts, theme.TabActive.Render(l))
		} else {
			parts = append(parts, theme.TabInactive.Render(l))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
