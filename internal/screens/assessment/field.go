package assessment

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// field is the input widget of one answerable question.
type field struct {
	q      asmt.Question
	input  components.TextInput
	choice components.ChoiceList
	rated  *bool
}

func newField(q asmt.Question) *field {
	f := &field{q: q}
	switch q.Kind {
	case asmt.KindSingleChoice:
		f.choice = components.NewChoiceList(q.Options, false)
	case asmt.KindMultiChoice:
		f.choice = components.NewChoiceList(q.Options, true)
	case asmt.KindRated:
	default:
		placeholder := q.Hint
		if placeholder == "" {
			placeholder = "Escriba la respuesta..."
		}
		f.input = components.NewTextInput(placeholder, q.Kind == asmt.KindNumeric, 0)
		f.input.Model.SetWidth(48)
		f.input.Blur()
	}
	return f
}

func (f *field) textual() bool {
	switch f.q.Kind {
	case asmt.KindText, asmt.KindNumeric, asmt.KindDrawing:
		return true
	}
	return false
}

func (f *field) focus() tea.Cmd {
	switch {
	case f.textual():
		return f.input.Focus()
	case f.q.Kind == asmt.KindRated:
	default:
		f.choice.Focused = true
	}
	return nil
}

func (f *field) blur() {
	if f.textual() {
		f.input.Blur()
	}
	f.choice.Focused = false
}

// update applies a message and reports whether the answer changed.
func (f *field) update(msg tea.Msg) (bool, tea.Cmd) {
	switch {
	case f.textual():
		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return f.input.Value() != before, cmd

	case f.q.Kind == asmt.KindRated:
		kmsg, ok := msg.(tea.KeyMsg)
		if !ok {
			return false, nil
		}
		switch kmsg.String() {
		case "space":
			v := f.rated == nil || !*f.rated
			f.rated = &v
			return true, nil
		case "s", "y":
			v := true
			f.rated = &v
			return true, nil
		case "n":
			v := false
			f.rated = &v
			return true, nil
		}
		return false, nil

	default:
		var changed bool
		f.choice, changed = f.choice.Update(msg)
		return changed, nil
	}
}

// value returns the recorded form of the current input; nil clears it.
func (f *field) value() asmt.Value {
	switch f.q.Kind {
	case asmt.KindRated:
		if f.rated == nil {
			return nil
		}
		return asmt.Bool(*f.rated)
	case asmt.KindNumeric:
		s := strings.TrimSpace(f.input.Value())
		if s == "" {
			return nil
		}
		// Kept as typed; scoring compares the literal digits.
		return asmt.Text(s)
	case asmt.KindSingleChoice:
		sel := f.choice.Selected()
		if len(sel) == 0 {
			return nil
		}
		return asmt.Text(sel[0])
	case asmt.KindMultiChoice:
		sel := f.choice.Selected()
		if len(sel) == 0 {
			return nil
		}
		return asmt.List(sel)
	default:
		return asmt.Text(f.input.Value())
	}
}

func (f *field) view(width int) string {
	switch {
	case f.textual():
		return f.input.View()
	case f.q.Kind == asmt.KindRated:
		yes := theme.TabInactive.Render("Sí")
		no := theme.TabInactive.Render("No")
		if f.rated != nil {
			if *f.rated {
				yes = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Padding(0, 1).Render("✓ Sí")
			} else {
				no = lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Padding(0, 1).Render("✗ No")
			}
		}
		return yes + " " + no
	default:
		return f.choice.View(width)
	}
}
