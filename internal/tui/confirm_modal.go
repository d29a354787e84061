package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmFocus) string {
	btnBase := lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	btnActive := lipgloss.NewStyle().Padding(0, 1).
		Foreground(colorSelFg).
		Background(colorSelBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	help := styleMuted().Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		styleHeader().Render(title),
		"",
		body,
		"",
		controls,
		"",
		help,
	}, "\n")

	boxW := 60
	if width > 0 && width-4 < boxW {
		boxW = width - 4
	}
	if boxW < 24 {
		boxW = 24
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(boxW)
	return box.Render(content)
}
