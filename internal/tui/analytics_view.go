package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

func (m appModel) viewAnalytics() string {
	var b strings.Builder
	b.WriteString(styleHeader().Render("Admin Analytics Dashboard") + "\n\n")

	if m.pendingAnalytics != 0 {
		b.WriteString(styleMuted().Render("Loading analytics..."))
		return b.String()
	}
	snap := m.analytics
	if snap == nil {
		b.WriteString(styleMuted().Render("No analytics data available."))
		return b.String()
	}

	// Bars scale against the largest of the four series.
	maxCount := snap.Total
	if maxCount < 1 {
		maxCount = 1
	}
	b.WriteString(renderBar("Total", snap.Total, maxCount, colorBarTotal) + "\n")
	b.WriteString(renderBar("Todo", snap.Todo, maxCount, colorBarTodo) + "\n")
	b.WriteString(renderBar("In Progress", snap.InProgress, maxCount, colorBarProg) + "\n")
	b.WriteString(renderBar("Done", snap.Done, maxCount, colorBarDone) + "\n")

	b.WriteString("\n" + styleHeader().Render("Tasks Created (Last 7 Days)") + "\n")
	b.WriteString(renderPerDayTable(snap.TasksPerDay))

	if snap.CurrentTime != "" {
		b.WriteString("\n" + styleMuted().Render("Last updated: "+snap.CurrentTime))
	}
	return b.String()
}

func renderBar(label string, count, maxCount int, color lipgloss.TerminalColor) string {
	// Counts come straight from the server; clamp both ways so a malformed
	// snapshot cannot panic the renderer.
	filled := count * barWidth / maxCount
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		styleMuted().Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%-12s %s %d", label, bar, count)
}

// renderPerDayTable renders the 7-day history ordered by date. An empty map
// still renders the table, with a single "no data" row.
func renderPerDayTable(perDay map[string]int) string {
	var b strings.Builder
	b.WriteString(styleMuted().Render(fmt.Sprintf("%-12s %s", "Date", "Tasks")) + "\n")
	if len(perDay) == 0 {
		b.WriteString("No task data available\n")
		return b.String()
	}
	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		b.WriteString(fmt.Sprintf("%-12s %d\n", d, perDay[d]))
	}
	return b.String()
}
