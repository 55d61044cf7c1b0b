package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// ChoiceList is a vertical option selector. In single mode Space picks the
// option under the cursor; in multi mode Space toggles it. Enter is left to
// the enclosing screen.
type ChoiceList struct {
	Options []string
	Multi   bool
	Cursor  int
	Focused bool
	chosen  map[int]bool
}

// NewChoiceList creates a selector over options.
func NewChoiceList(options []string, multi bool) ChoiceList {
	return ChoiceList{
		Options: options,
		Multi:   multi,
		chosen:  make(map[int]bool),
	}
}

// Update handles keyboard navigation and selection. It reports whether the
// selection changed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.Focused {
		return c, false
	}

	switch kmsg.String() {
	case "left", "h":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "right", "l":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space":
		if len(c.Options) == 0 {
			return c, false
		}
		if c.Multi {
			c.chosen[c.Cursor] = !c.chosen[c.Cursor]
			return c, true
		}
		if c.chosen[c.Cursor] {
			return c, false
		}
		clear(c.chosen)
		c.chosen[c.Cursor] = true
		return c, true
	}
	return c, false
}

// Selected returns the chosen options in display order.
func (c ChoiceList) Selected() []string {
	var out []string
	for i, opt := range c.Options {
		if c.chosen[i] {
			out = append(out, opt)
		}
	}
	return out
}

// SetSelected marks the options in values as chosen.
func (c *ChoiceList) SetSelected(values []string) {
	clear(c.chosen)
	for _, v := range values {
		for i, opt := range c.Options {
			if opt == v {
				c.chosen[i] = true
			}
		}
	}
}

// View renders the options on one line, wrapping to width.
func (c ChoiceList) View(width int) string {
	var line, out string
	for i, opt := range c.Options {
		mark := "( )"
		if c.Multi {
			mark = "[ ]"
		}
		if c.chosen[i] {
			mark = "(•)"
			if c.Multi {
				mark = "[x]"
			}
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if c.chosen[i] {
			style = style.Foreground(theme.Secondary)
		}
		if c.Focused && i == c.Cursor {
			style = theme.Selected
		}
		item := style.Render(fmt.Sprintf("%s %s", mark, opt)) + "   "

		if line != "" && lipgloss.Width(line)+lipgloss.Width(item) > width {
			out += line + "\n"
			line = ""
		}
		line += item
	}
	return out + line
}
