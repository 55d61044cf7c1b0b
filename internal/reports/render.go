package reports

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	minWidth = 40
	barWidth = 20
)

// Render lays out r as plain text no wider than width columns.
func Render(r *Report, t Template, width int) string {
	if width < minWidth {
		width = minWidth
	}
	var b strings.Builder
	for _, blk := range t.Blocks {
		var part string
		switch blk {
		case BlockHeader:
			part = renderHeader(r, t, width)
		case BlockCategories:
			part = renderCategories(r, width)
		case BlockHistory:
			part = renderHistory(r, width)
		case BlockNotes:
			part = renderNotes(r, width)
		case BlockSummary:
			part = renderNarrative(r, width, false)
		case BlockNarrative:
			part = renderNarrative(r, width, true)
		case BlockSignature:
			part = renderSignature(r)
		}
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part)
	}
	return b.String()
}

func renderHeader(r *Report, t Template, width int) string {
	var b strings.Builder
	title := t.Name
	if r.Clinic != "" {
		title = r.Clinic + " · " + title
	}
	b.WriteString(ansi.Truncate(title, width, "…") + "\n")
	b.WriteString(strings.Repeat("═", min(width, ansi.StringWidth(title))) + "\n")
	rows := [][2]string{
		{"Informe", r.ID},
		{"Paciente", fmt.Sprintf("%s (%s)", r.PatientName, r.PatientID)},
		{"Prueba", r.Test},
		{"Fecha", r.Date},
		{"Puntuación", fmt.Sprintf("%d/%d (%.0f%%)", r.Score, r.MaxScore, r.Percent())},
		{"Médico", r.Doctor},
		{"Estado", r.Status},
	}
	for _, row := range rows {
		b.WriteString(padRight(row[0]+":", 11) + " " + row[1] + "\n")
	}
	return b.String()
}

func renderCategories(r *Report, width int) string {
	if len(r.Categories) == 0 {
		return ""
	}
	nameWidth := 0
	for _, c := range r.Categories {
		nameWidth = max(nameWidth, ansi.StringWidth(c.Name))
	}
	bw := min(barWidth, max(5, width-nameWidth-10))

	var b strings.Builder
	b.WriteString("Categorías\n")
	for _, c := range r.Categories {
		b.WriteString(fmt.Sprintf("  %s %s %d/%d\n", padRight(c.Name, nameWidth), Bar(c.Score, c.MaxScore, bw), c.Score, c.MaxScore))
	}
	return b.String()
}

func renderHistory(r *Report, width int) string {
	if len(r.History) < 2 {
		return ""
	}
	bw := min(barWidth*2, max(5, width-24))
	var b strings.Builder
	b.WriteString("Evolución\n")
	for _, h := range r.History {
		b.WriteString(fmt.Sprintf("  %s %s %d/%d\n", h.Date, Bar(h.Score, h.MaxScore, bw), h.Score, h.MaxScore))
	}
	if prev, ok := r.Previous(); ok {
		b.WriteString(fmt.Sprintf("  Cambio desde %s: %+d puntos\n", prev.Date, r.Score-prev.Score))
	}
	return b.String()
}

func renderNotes(r *Report, width int) string {
	notes := r.Notes
	if notes == "" {
		notes = "No hay notas disponibles para este informe."
	}
	return "Notas\n" + indent(ansi.Wordwrap(notes, width-2, ""), "  ") + "\n"
}

func renderNarrative(r *Report, width int, full bool) string {
	n := r.Narrative
	if n == nil {
		return "Interpretación\n  Pendiente de generar.\n"
	}
	var b strings.Builder
	b.WriteString("Interpretación\n")
	b.WriteString(indent(ansi.Wordwrap(n.Summary, width-2, ""), "  ") + "\n")
	if !full {
		return b.String()
	}
	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + title + "\n")
		for _, it := range items {
			b.WriteString(indent(ansi.Wordwrap("• "+it, width-4, ""), "  ") + "\n")
		}
	}
	writeList("Observaciones", n.Observations)
	writeList("Recomendaciones", n.Recommendations)
	return b.String()
}

func renderSignature(r *Report) string {
	if r.Doctor == "" {
		return ""
	}
	return fmt.Sprintf("\n  ____________________\n  %s\n", r.Doctor)
}

// Bar draws a proportional bar of width cells.
func Bar(score, maxScore, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxScore > 0 {
		filled = score * width / maxScore
	}
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// padRight pads s to w display columns.
func padRight(s string, w int) string {
	if n := ansi.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
