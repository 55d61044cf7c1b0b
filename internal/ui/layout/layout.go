package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

// Smallest terminal the screens are laid out for.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"La terminal es demasiado pequeña\n\nAmplíela al menos a\n%d x %d\n\nActual: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar: clinic name on the
// left, screen title in the centre and the signed-in profile on the right.
// The title stays centred unless the sides would overlap it.
func RenderHeader(clinic, title, profile string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + clinic)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(profile)

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(width).Render(left + spaces(leftGap) + center + spaces(rightGap) + right)
}

// RenderFooter renders the footer with key hints and, when set, a toast
// aligned to the right.
func RenderFooter(hints []KeyHint, toast string, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	content := "  " + strings.Join(parts, "   ")
	if toast != "" {
		gap := max(width-6-lipgloss.Width(content)-lipgloss.Width(toast), 2)
		content += spaces(gap) + toast
	}
	return bar(width).Render(content)
}

// bar is the bordered card style shared by header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func spaces(n int) string { return strings.Repeat(" ", n) }

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(content)
	return header + "\n" + body + "\n" + footer
}

// Centered places s in the horizontal centre of width.
func Centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Message renders a dim, centred status line such as "Cargando...".
func Message(text string, width int) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("\n\n" + text)
}

// ErrorMessage renders a centred error line.
func ErrorMessage(err string, width int) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Error).
		Render("\n\nError: " + err)
}
