package tui

import (
	"fmt"
	"strings"

	"taskdeck/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.screen == screenAuth {
		return m.viewAuth()
	}
	return m.viewDashboard()
}

func (m appModel) viewAuth() string {
	var b strings.Builder

	if m.mode == authLogin {
		b.WriteString(styleHeader().Render("Login") + "\n\n")
		b.WriteString(m.renderField("Username", m.loginUser.View(), m.authFocus == 0))
		b.WriteString(m.renderField("Password", m.loginPass.View(), m.authFocus == 1))
		if m.pendingLogin != 0 {
			b.WriteString("\n" + styleMuted().Render("Logging in...") + "\n")
		}
	} else {
		b.WriteString(styleHeader().Render("Register") + "\n\n")
		b.WriteString(m.renderField("Username", m.regUser.View(), m.authFocus == 0))
		b.WriteString(m.renderField("Password", m.regPass.View(), m.authFocus == 1))
		b.WriteString(m.renderField("Email", m.regEmail.View(), m.authFocus == 2))
		if m.pendingRegister != 0 {
			b.WriteString("\n" + styleMuted().Render("Registering...") + "\n")
		}
	}

	if m.authErr != "" {
		b.WriteString("\n" + styleError().Render(m.authErr) + "\n")
	}
	if m.authNotice != "" {
		b.WriteString("\n" + styleSuccess().Render(m.authNotice) + "\n")
	}

	footer := "enter: submit  tab: next field  ctrl+t: switch login/register  ctrl+c: quit"
	b.WriteString("\n" + styleMuted().Render(footer))
	return b.String()
}

func (m appModel) renderField(label, input string, focused bool) string {
	return styleFieldLabel(focused).Render(label) + "\n" + input + "\n"
}

func (m appModel) viewDashboard() string {
	sess := m.sess()
	name, role := "-", "-"
	if sess.User != nil {
		name = sess.User.Name
		role = string(sess.User.Role)
	}
	header := styleHeader().Render(fmt.Sprintf("Taskdeck  User=%s  Role=%s", name, role))

	var tabsRow []string
	for i, t := range m.visibleTabs() {
		label := fmt.Sprintf("F%d %s", i+1, t.title())
		tabsRow = append(tabsRow, styleTab(t == m.tab).Render(label))
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabsRow...)

	var body string
	switch m.tab {
	case tabCreate:
		body = m.viewCreate()
	case tabList:
		body = m.viewList()
	case tabUpdate, tabDelete:
		body = m.viewPicker()
	case tabAnalytics:
		body = m.viewAnalytics()
	}

	var notes []string
	if m.loadErr != "" {
		notes = append(notes, styleError().Render(m.loadErr))
	}
	if m.formErr != "" {
		notes = append(notes, styleError().Render(m.formErr))
	}
	if m.formNotice != "" {
		notes = append(notes, styleSuccess().Render(m.formNotice))
	}
	if m.pendingList != 0 {
		notes = append(notes, styleMuted().Render("Loading tasks..."))
	}

	footer := styleMuted().Render("tab: focus  enter: submit/select  ctrl+o: logout  ctrl+c: quit")

	parts := []string{header, tabBar}
	if len(notes) > 0 {
		parts = append(parts, strings.Join(notes, "\n"))
	}
	parts = append(parts, body, footer)
	out := strings.Join(parts, "\n\n")

	if m.confirmOpen {
		if sel, ok := m.deps.Tasks.Selected(); ok {
			return out + "\n\n" + renderConfirmModal(
				m.width,
				"Delete task",
				fmt.Sprintf("Are you sure you want to delete %q?", sel.Title),
				"Delete",
				"Cancel",
				m.confirmFoc,
			)
		}
	}
	return out
}

func (m appModel) viewCreate() string {
	var b strings.Builder
	b.WriteString(styleHeader().Render("Create Task") + "\n\n")
	b.WriteString(m.renderField("Title", m.createTitle.View(), m.zone == zoneFields && m.fieldIdx == 0))
	b.WriteString(m.renderField("Description", m.createDesc.View(), m.zone == zoneFields && m.fieldIdx == 1))
	b.WriteString(m.renderField("Status", renderStatusPicker(m.createStat), m.zone == zoneFields && m.fieldIdx == 2))
	if m.pendingCreate != 0 {
		b.WriteString("\n" + styleMuted().Render("Creating..."))
	}
	return b.String()
}

func (m appModel) viewList() string {
	var b strings.Builder
	b.WriteString(m.search.View() + "\n\n")
	rows := m.filteredTasks()
	if len(rows) == 0 {
		b.WriteString(styleMuted().Render("No tasks found"))
		return b.String()
	}
	b.WriteString(renderTaskTable(rows, -1))
	return b.String()
}

func (m appModel) viewPicker() string {
	var b strings.Builder
	if m.tab == tabUpdate {
		b.WriteString(styleHeader().Render("Update Task") + "\n\n")
	} else {
		b.WriteString(styleHeader().Render("Delete Task") + "\n\n")
	}
	b.WriteString(m.search.View() + "\n\n")

	rows := m.filteredTasks()
	if len(rows) == 0 {
		b.WriteString(styleMuted().Render("No tasks found") + "\n")
	} else {
		cursor := -1
		if m.zone == zonePicker {
			cursor = m.cursor
		}
		b.WriteString(renderTaskTable(rows, cursor) + "\n")
	}

	sel, hasSel := m.deps.Tasks.Selected()
	if hasSel {
		b.WriteString("\n" + styleMuted().Render("Selected: ") + sel.Title + "\n")
	}

	if m.tab == tabUpdate && hasSel {
		b.WriteString("\n")
		b.WriteString(m.renderField("Title", m.editTitle.View(), m.zone == zoneFields && m.fieldIdx == 0))
		b.WriteString(m.renderField("Description", m.editDesc.View(), m.zone == zoneFields && m.fieldIdx == 1))
		b.WriteString(m.renderField("Status", renderStatusPicker(m.editStat), m.zone == zoneFields && m.fieldIdx == 2))
		if m.pendingUpdate != 0 {
			b.WriteString("\n" + styleMuted().Render("Updating..."))
		}
	}
	if m.tab == tabDelete && hasSel && m.pendingDelete != 0 {
		b.WriteString("\n" + styleMuted().Render("Deleting..."))
	}
	return b.String()
}

// renderTaskTable renders the shared task table; cursor -1 means no
// highlighted row.
func renderTaskTable(rows []model.Task, cursor int) string {
	headers := fmt.Sprintf("%-4s %-30s %-30s %-12s %-17s", "#", "Task", "Description", "Status", "Created")
	var b strings.Builder
	b.WriteString(styleMuted().Render(headers) + "\n")
	for i, t := range rows {
		line := fmt.Sprintf("%-4d %-30s %-30s %-12s %-17s",
			t.TaskNumber,
			truncate(t.Title, 30),
			truncate(t.Description, 30),
			string(t.Status),
			t.CreatedAt.Display(),
		)
		if i == cursor {
			line = styleSelectedRow().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderStatusPicker(idx int) string {
	var parts []string
	for i, s := range model.AllowedStatuses() {
		if i == idx {
			parts = append(parts, styleSelectedRow().Render(" "+string(s)+" "))
		} else {
			parts = append(parts, styleMuted().Render(" "+string(s)+" "))
		}
	}
	return strings.Join(parts, " ")
}

// truncate shortens to n runes, never cutting a multibyte rune mid-sequence.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
