// Package results shows the administration history, the monthly score
// trend and the distribution of administrations per test.
package results

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cogniscreen/internal/screen"
	"github.com/abhisek/cogniscreen/internal/store"
	"github.com/abhisek/cogniscreen/internal/ui/components"
	"github.com/abhisek/cogniscreen/internal/ui/layout"
	"github.com/abhisek/cogniscreen/internal/ui/theme"
)

const (
	tabHistory = iota
	tabTrend
	tabDistribution
)

type loadedMsg struct {
	Results      []store.Result
	Trend        []store.MonthlyScore
	Distribution []store.TestCount
	Err          error
}

// ResultsScreen is the results overview.
type ResultsScreen struct {
	deps   screen.Deps
	tabs   components.Tabs
	table  table.Model
	data   loadedMsg
	loaded bool
	errMsg string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen.
func New(deps screen.Deps) *ResultsScreen {
	return &ResultsScreen{
		deps: deps,
		tabs: components.NewTabs("Historial", "Tendencia mensual", "Distribución"),
		table: components.NewTable([]table.Column{
			{Title: "Fecha", Width: 10},
			{Title: "Paciente", Width: 20},
			{Title: "Prueba", Width: 18},
			{Title: "Punt.", Width: 6},
			{Title: "%", Width: 5},
			{Title: "Motivo", Width: 10},
		}, nil, 10),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return s.load
}

func (s *ResultsScreen) load() tea.Msg {
	ctx := context.Background()
	repo := s.deps.Store.Results()
	list, err := repo.List(ctx, 0)
	if err != nil {
		return loadedMsg{Err: err}
	}
	trend, err := repo.MonthlyTrend(ctx)
	if err != nil {
		return loadedMsg{Err: err}
	}
	dist, err := repo.Distribution(ctx)
	if err != nil {
		return loadedMsg{Err: err}
	}
	return loadedMsg{Results: list, Trend: trend, Distribution: dist}
}

func (s *ResultsScreen) Title() string {
	return "Resultados"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Vista"}}
	if s.tabs.Active == tabHistory {
		hints = append(hints, layout.KeyHint{Key: "↑/↓", Description: "Navegar"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Actualizar"},
		layout.KeyHint{Key: "Esc", Description: "Volver"},
	)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.data = msg
		s.table.SetRows(toRows(msg.Results))
		return s, nil

	case tea.KeyMsg:
		if tabs, changed := s.tabs.Update(msg); changed {
			s.tabs = tabs
			return s, nil
		}
		if msg.String() == "r" {
			return s, s.load
		}
		if s.tabs.Active == tabHistory {
			var cmd tea.Cmd
			s.table, cmd = s.table.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func toRows(list []store.Result) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, r := range list {
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		rows = append(rows, table.Row{
			r.Date, r.PatientName, r.Test,
			fmt.Sprintf("%d/%d", r.Score, r.MaxScore),
			fmt.Sprintf("%.0f", r.Percent()),
			reason,
		})
	}
	return rows
}

func (s *ResultsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.ErrorMessage(s.errMsg, width)
	}
	if !s.loaded {
		return layout.Message("Cargando resultados...", width)
	}

	var b strings.Builder
	b.WriteString("\n  " + s.tabs.View() + "\n\n")

	switch s.tabs.Active {
	case tabHistory:
		if len(s.data.Results) == 0 {
			b.WriteString(theme.Hint.Render("  Todavía no hay resultados."))
			break
		}
		used := lipgloss.Height(b.String())
		s.table.SetHeight(components.TableHeight(height, used+1))
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.table.View()))
	case tabTrend:
		b.WriteString(renderTrend(s.data.Trend, width))
	case tabDistribution:
		b.WriteString(renderDistribution(s.data.Distribution, width))
	}
	return b.String()
}

// renderTrend groups the monthly averages by month; bars are relative to
// the highest average shown.
func renderTrend(trend []store.MonthlyScore, width int) string {
	if len(trend) == 0 {
		return theme.Hint.Render("  Sin datos de tendencia.")
	}
	top := 0.0
	for _, m := range trend {
		top = max(top, m.Average)
	}
	barWidth := min(50, max(20, width-40))

	var b strings.Builder
	month := ""
	for _, m := range trend {
		if m.Month != month {
			if month != "" {
				b.WriteString("\n")
			}
			month = m.Month
			b.WriteString("  " + theme.Label.Render(m.Month) + "\n")
		}
		frac := 0.0
		if top > 0 {
			frac = m.Average / top
		}
		bar := components.NewProgressBar("", frac, false, barWidth)
		bar.Color = theme.Primary
		name := lipgloss.NewStyle().Width(22).Foreground(theme.Text).Render(m.Test)
		fmt.Fprintf(&b, "    %s %s  %s\n", name, bar.View(),
			theme.Hint.Render(fmt.Sprintf("%.1f (n=%d)", m.Average, m.Count)))
	}
	return b.String()
}

func renderDistribution(dist []store.TestCount, width int) string {
	if len(dist) == 0 {
		return theme.Hint.Render("  Sin evaluaciones registradas.")
	}
	top, total := 0, 0
	for _, d := range dist {
		top = max(top, d.Count)
		total += d.Count
	}
	barWidth := min(50, max(20, width-40))

	var b strings.Builder
	for _, d := range dist {
		bar := components.NewProgressBar("", float64(d.Count)/float64(top), false, barWidth)
		name := lipgloss.NewStyle().Width(22).Foreground(theme.Text).Render(d.Test)
		share := 100 * float64(d.Count) / float64(total)
		fmt.Fprintf(&b, "  %s %s  %s\n", name, bar.View(),
			theme.Hint.Render(fmt.Sprintf("%d (%.0f%%)", d.Count, share)))
	}
	fmt.Fprintf(&b, "\n  %s", theme.Hint.Render(fmt.Sprintf("Total: %d evaluaciones", total)))
	return b.String()
}
