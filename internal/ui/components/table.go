package components

import (
	"charm.land/bubbles/v2/table"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// NewTable builds a focused bubbles table with the application styles.
func NewTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	t.SetStyles(table.Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.TextDim).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Cell:     lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
	})
	return t
}

// TableHeight returns the row count that fits in height after reserving
// the given number of lines for surrounding chrome.
func TableHeight(height, reserved int) int {
	return max(3, height-reserved)
}
