package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	retrogradeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)
)

// renderView formats a View for the terminal.
func renderView(view birthchart.View) string {
	switch view.Status {
	case birthchart.StatusLoading:
		return loadingStyle.Render(birthchart.MessageLoading)
	case birthchart.StatusError:
		return errorStyle.Render(view.Error)
	case birthchart.StatusSuccess:
		return renderResult(view.Result)
	default:
		return mutedStyle.Render("No chart calculated yet.")
	}
}

func renderResult(result *birthchart.ChartResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sidereal Birth Chart"))
	b.WriteString("\n")

	if result != nil && result.ChartURL != "" {
		b.WriteString("Chart: " + result.ChartURL)
	} else {
		b.WriteString(mutedStyle.Render(birthchart.MessageChartUnavailable))
	}
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(planetTable(birthchart.Rows(result))))
	return b.String()
}

func planetTable(rows []birthchart.PlanetRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-14s %-16s %9s %5s", "Planet", "Sign", "Degrees", "House")))
	for _, row := range rows {
		name := row.Name
		if row.Retrograde {
			name += " " + retrogradeStyle.Render(birthchart.RetrogradeMarker)
		}
		sign := strings.TrimSpace(row.Glyph + " " + row.Sign)
		lines = append(lines, padRight(name, 14)+" "+padRight(sign, 16)+" "+padLeft(row.Degrees, 9)+" "+padLeft(fmt.Sprint(row.House), 5))
	}
	return strings.Join(lines, "\n")
}

// padRight pads by display width so glyphs and styled markers line up.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func renderHistory(entries []birthchart.HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No calculations recorded yet.")
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-26s %-17s %-14s %7s", "Timestamp", "Birth", "Ayanamsha", "Planets")))
	for _, entry := range entries {
		req := entry.Request
		birth := fmt.Sprintf("%04d-%02d-%02d %02d:%02d", req.Year, req.Month, req.Day, req.Hours, req.Minutes)
		lines = append(lines, fmt.Sprintf("%-26s %-17s %-14s %7d", entry.Timestamp, birth, req.Ayanamsha.Label(), len(entry.Planets)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
