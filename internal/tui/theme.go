package tui

import "github.com/charmbracelet/lipgloss"

// Palette helpers. The client must remain readable on both light and dark
// terminal backgrounds, so everything goes through lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorError    lipgloss.TerminalColor = ac("160", "196")
	colorSuccess  lipgloss.TerminalColor = ac("28", "40")
	colorSelBg    lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelFg    lipgloss.TerminalColor = ac("235", "255")
	colorBarTotal lipgloss.TerminalColor = ac("178", "220") // yellow
	colorBarTodo  lipgloss.TerminalColor = ac("33", "75")   // blue
	colorBarProg  lipgloss.TerminalColor = ac("35", "78")   // green
	colorBarDone  lipgloss.TerminalColor = ac("167", "210") // red
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleSuccess() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSuccess)
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func styleTab(active bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return st.Bold(true).Foreground(colorSelFg).Background(colorSelBg)
	}
	return st.Foreground(colorMuted)
}

func styleSelectedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelFg).Background(colorSelBg)
}

func styleFieldLabel(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	}
	return styleMuted()
}
