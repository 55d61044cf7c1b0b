package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	asmt "github.com/abhisek/cogniscreen/internal/assessment"
	"github.com/abhisek/cogniscreen/internal/runner"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

func (s *AssessmentScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width, height, s.run.Progress())
	}
	if s.run.Completed() {
		return layout.Message("Guardando resultado...", width)
	}

	top := s.renderStatus(width)
	section := s.renderSectionHeader(width)
	body := s.renderQuestions(width, height-lipgloss.Height(top)-lipgloss.Height(section)-2)

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(section)
	b.WriteString("\n")
	b.WriteString(body)
	if s.errMsg != "" {
		b.WriteString("\n" + theme.ErrorText.Render("  "+s.errMsg))
	}
	return b.String()
}

// renderStatus draws the patient, section dots, progress and countdown.
func (s *AssessmentScreen) renderStatus(width int) string {
	who := "Sin paciente"
	if s.patient != nil {
		who = s.patient.Name
	}
	left := theme.Label.Render("  " + who)

	remaining := s.run.Remaining()
	clock := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	if runner.Urgent(remaining) {
		clock = clock.Foreground(theme.Error)
	}
	right := clock.Render("⏱ "+runner.FormatRemaining(remaining)) +
		theme.Hint.Render(" / "+runner.FormatRemaining(s.run.Countdown().Budget()))

	var dots strings.Builder
	for i := range s.run.SectionCount() {
		switch {
		case i == s.run.Index():
			dots.WriteString(theme.Selected.Render("●"))
		case s.run.Answered(i):
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("●"))
		default:
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("○"))
		}
		dots.WriteString(" ")
	}

	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(dots.String())-lipgloss.Width(right)-2)
	line := left + strings.Repeat(" ", gap/2) + dots.String() + strings.Repeat(" ", gap-gap/2) + right

	bar := components.NewProgressBar("  Progreso", float64(s.run.Progress())/100, true, width-2)
	return line + "\n" + bar.View()
}

func (s *AssessmentScreen) renderSectionHeader(width int) string {
	sec := s.run.Current()
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Sección %d de %d: %s", s.run.Index()+1, s.run.SectionCount(), sec.Title)))
	if pts := sec.Points(); pts > 0 {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  (%d puntos)", pts)))
	}
	wrap := lipgloss.NewStyle().Width(width - 4).PaddingLeft(2)
	if sec.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Foreground(theme.Text).Render(sec.Description))
	}
	if sec.Instructions != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Inherit(theme.Hint).Render(sec.Instructions))
	}
	return b.String()
}

// renderQuestions lists the section's questions, scrolled so the focused
// one is visible.
func (s *AssessmentScreen) renderQuestions(width, height int) string {
	sec := s.run.Current()
	focusedID := ""
	if f := s.current(); f != nil {
		focusedID = f.q.ID
	}

	var blocks []string
	focusedBlock := 0
	for _, q := range sec.Questions {
		if !q.IsGroup() {
			if q.ID == focusedID {
				focusedBlock = len(blocks)
			}
			blocks = append(blocks, s.renderLeaf(q, q.ID == focusedID, width, "  "))
			continue
		}
		blocks = append(blocks, "  "+theme.Body.Bold(true).Render(q.Prompt)+
			theme.Subtitle.Render(fmt.Sprintf("  (%d pts)", q.Points)))
		for _, sq := range q.SubQuestions {
			if sq.ID == focusedID {
				focusedBlock = len(blocks)
			}
			blocks = append(blocks, s.renderLeaf(sq, sq.ID == focusedID, width, "      "))
		}
	}

	start := 0
	for start < focusedBlock && linesOf(blocks[start:focusedBlock+1]) > height {
		start++
	}
	var b strings.Builder
	used := 0
	for _, blk := range blocks[start:] {
		h := lipgloss.Height(blk) + 1
		if used+h > height && used > 0 {
			b.WriteString(theme.Hint.Render("  ↓ más preguntas"))
			break
		}
		b.WriteString(blk)
		b.WriteString("\n\n")
		used += h
	}
	return b.String()
}

func linesOf(blocks []string) int {
	n := 0
	for _, b := range blocks {
		n += lipgloss.Height(b) + 1
	}
	return n
}

func (s *AssessmentScreen) renderLeaf(q asmt.Question, focused bool, width int, indent string) string {
	marker := "  "
	prompt := theme.Body
	if focused {
		marker = "▸ "
		prompt = theme.Selected
	}
	points := ""
	if q.Points > 0 {
		points = theme.Subtitle.Render(fmt.Sprintf("  (%d pt)", q.Points))
		if q.Points > 1 {
			points = theme.Subtitle.Render(fmt.Sprintf("  (%d pts)", q.Points))
		}
	}
	head := indent + theme.Selected.Render(marker) + prompt.Render(q.Prompt) + points
	input := indent + "    " + s.fields[q.ID].view(width-len(indent)-6)
	return head + "\n" + input
}

func renderQuitConfirm(width, height, progress int) string {
	box := theme.Card.BorderForeground(theme.Warning).Render(
		theme.Title.Render("¿Abandonar la evaluación?") + "\n\n" +
			theme.Body.Render(fmt.Sprintf("Se ha completado el %d%%. Las respuestas no se guardarán.", progress)) + "\n\n" +
			theme.Label.Render("[S] Abandonar    [N] Continuar"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
