package tui

import (
	"net/http"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/guard"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/validation"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionChangedMsg:
		// Another process mutated the session store; re-evaluate the guard
		// and re-arm the watch.
		rearm := waitSessionCmd(m.sessionCh)
		sess := m.sess()
		if m.screen == screenDashboard && guard.Decide(sess, guard.Authenticated) != guard.Admit {
			m.redirectToAuth(msgSessionElsewhere)
		}
		return m, rearm

	case loginDoneMsg:
		if msg.seq != m.pendingLogin {
			return m, nil
		}
		m.pendingLogin = 0
		if msg.err != nil {
			// No partial session state on failure.
			m.authErr = loginFailMessage(msg.err)
			return m, nil
		}
		user := session.UserFromLogin(msg.username, msg.res.Username, msg.res.Role, msg.res.AccessToken)
		if err := m.deps.Sessions.Set(msg.res.AccessToken, user); err != nil {
			m.deps.Log.WithError(err).Error("store session")
			m.authErr = "Login failed. Please try again."
			return m, nil
		}
		m.authErr = ""
		m.authNotice = ""
		m.loginPass.SetValue("")
		m.screen = screenDashboard
		var cmd tea.Cmd
		m, cmd = m.enterTab(tabCreate)
		return m, cmd

	case registerDoneMsg:
		if msg.seq != m.pendingRegister {
			return m, nil
		}
		m.pendingRegister = 0
		if msg.err != nil {
			m.authErr = registerFailMessage(msg.err)
			return m, nil
		}
		// Success confirms and clears the form; no auto-navigation.
		m.authErr = ""
		m.authNotice = msgRegistered
		m.regUser.SetValue("")
		m.regPass.SetValue("")
		m.regEmail.SetValue("")
		m.setAuthFocus(0)
		return m, nil

	case tasksLoadedMsg:
		if msg.seq != m.pendingList {
			return m, nil
		}
		m.pendingList = 0
		if msg.err != nil {
			m.redirectToAuth(msgTasksFetchFailed)
			return m, nil
		}
		m.tasks = msg.tasks
		if m.cursor >= len(msg.tasks) {
			m.cursor = 0
		}
		return m, nil

	case createDoneMsg:
		if msg.seq != m.pendingCreate {
			return m, nil
		}
		m.pendingCreate = 0
		if msg.err != nil {
			m.formErr = msgCreateFailed
			return m, nil
		}
		m.createTitle.SetValue("")
		m.createDesc.SetValue("")
		m.createStat = 0
		var cmd tea.Cmd
		m, cmd = m.enterTab(tabList)
		m.formNotice = msgCreated
		return m, cmd

	case updateDoneMsg:
		if msg.seq != m.pendingUpdate {
			return m, nil
		}
		m.pendingUpdate = 0
		if msg.err != nil {
			m.formErr = msgUpdateFailed
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.enterTab(tabList)
		m.formNotice = msgUpdated
		return m, cmd

	case deleteDoneMsg:
		if msg.seq != m.pendingDelete {
			return m, nil
		}
		m.pendingDelete = 0
		if msg.err != nil {
			m.formErr = msgDeleteFailed
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.enterTab(tabList)
		m.formNotice = msgDeleted
		return m, cmd

	case analyticsLoadedMsg:
		if msg.seq != m.pendingAnalytics {
			return m, nil
		}
		m.pendingAnalytics = 0
		if msg.err != nil {
			switch api.StatusCode(msg.err) {
			case http.StatusUnauthorized, http.StatusForbidden:
				m.redirectToAuth("")
			default:
				m.loadErr = msgAnalyticsFailed
			}
			return m, nil
		}
		snap := msg.snap
		m.analytics = &snap
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenAuth {
			return m.updateAuthKey(msg)
		}
		return m.updateDashboardKey(msg)
	}

	return m, nil
}

func (m appModel) updateAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		m.toggleAuthMode()
		return m, nil
	case "tab", "down":
		m.setAuthFocus(m.authFocus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setAuthFocus(m.authFocus - 1)
		return m, nil
	case "enter":
		if m.mode == authLogin {
			return m.submitLogin()
		}
		return m.submitRegister()
	}

	fields := m.authFields()
	if m.authFocus < len(fields) {
		var cmd tea.Cmd
		*fields[m.authFocus], cmd = fields[m.authFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) submitLogin() (tea.Model, tea.Cmd) {
	if m.pendingLogin != 0 {
		return m, nil
	}
	username := strings.TrimSpace(m.loginUser.Value())
	password := m.loginPass.Value()
	if username == "" || password == "" {
		m.authErr = "Username and password are required"
		return m, nil
	}
	m.authErr = ""
	m.authNotice = ""
	seq := m.nextSeq()
	m.pendingLogin = seq
	return m, loginCmd(m.deps.API, seq, username, password)
}

func (m appModel) submitRegister() (tea.Model, tea.Cmd) {
	if m.pendingRegister != 0 {
		return m, nil
	}
	in := validation.RegisterInput{
		Username: strings.TrimSpace(m.regUser.Value()),
		Password: m.regPass.Value(),
		Email:    strings.TrimSpace(m.regEmail.Value()),
	}
	// Password shape is checked before the request goes out.
	if err := validation.CheckRegister(in); err != nil {
		m.authErr = err.Error()
		m.authNotice = ""
		return m, nil
	}
	m.authErr = ""
	m.authNotice = ""
	seq := m.nextSeq()
	m.pendingRegister = seq
	return m, registerCmd(m.deps.API, seq, in.Username, in.Password, in.Email)
}

func (m appModel) updateDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmOpen {
		return m.updateConfirmKey(msg)
	}

	switch msg.String() {
	case "f1":
		return m.enterTab(tabCreate)
	case "f2":
		return m.enterTab(tabList)
	case "f3":
		return m.enterTab(tabUpdate)
	case "f4":
		return m.enterTab(tabDelete)
	case "f5":
		if guard.Decide(m.sess(), guard.Admin) != guard.Admit {
			// Under-privileged sessions stay on the default view.
			m.formErr = msgAnalyticsNotAdmin
			return m, nil
		}
		return m.enterTab(tabAnalytics)
	case "ctrl+o":
		m.logout()
		return m, nil
	case "tab":
		m.cycleZone(1)
		return m, nil
	case "shift+tab":
		m.cycleZone(-1)
		return m, nil
	}

	switch m.tab {
	case tabCreate:
		return m.updateCreateKey(msg)
	case tabList:
		return m.updateListKey(msg)
	case tabUpdate, tabDelete:
		return m.updatePickerKey(msg)
	case tabAnalytics:
		return m, nil
	}
	return m, nil
}

// zones returns the focus order for the active tab.
func (m appModel) zones() []focusZone {
	switch m.tab {
	case tabCreate:
		return []focusZone{zoneFields}
	case tabList:
		return []focusZone{zoneSearch}
	case tabUpdate:
		return []focusZone{zoneSearch, zonePicker, zoneFields}
	case tabDelete:
		return []focusZone{zoneSearch, zonePicker}
	}
	return nil
}

func (m *appModel) cycleZone(dir int) {
	// Within the create/update field groups, tab moves between fields first.
	if m.zone == zoneFields {
		n := m.fieldCount()
		next := m.fieldIdx + dir
		if next >= 0 && next < n {
			m.setField(next)
			return
		}
	}
	zs := m.zones()
	cur := 0
	for i, z := range zs {
		if z == m.zone {
			cur = i
		}
	}
	next := ((cur+dir)%len(zs) + len(zs)) % len(zs)
	m.zone = zs[next]
	m.blurDashboard()
	switch m.zone {
	case zoneSearch:
		m.search.Focus()
	case zoneFields:
		if dir < 0 {
			m.setField(m.fieldCount() - 1)
		} else {
			m.setField(0)
		}
	}
}

// fieldCount is the number of form fields in the active tab's field zone:
// title, description, status.
func (m appModel) fieldCount() int {
	switch m.tab {
	case tabCreate, tabUpdate:
		return 3
	}
	return 0
}

func (m *appModel) setField(i int) {
	m.fieldIdx = i
	m.blurDashboard()
	switch m.tab {
	case tabCreate:
		switch i {
		case 0:
			m.createTitle.Focus()
		case 1:
			m.createDesc.Focus()
		}
	case tabUpdate:
		switch i {
		case 0:
			m.editTitle.Focus()
		case 1:
			m.editDesc.Focus()
		}
	}
}

func (m appModel) updateCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitCreate()
	case "left", "right":
		if m.fieldIdx == 2 {
			m.createStat = cycleStatus(m.createStat, msg.String())
			return m, nil
		}
	}
	var cmd tea.Cmd
	switch m.fieldIdx {
	case 0:
		m.createTitle, cmd = m.createTitle.Update(msg)
	case 1:
		m.createDesc, cmd = m.createDesc.Update(msg)
	}
	return m, cmd
}

func (m appModel) submitCreate() (tea.Model, tea.Cmd) {
	if m.pendingCreate != 0 {
		return m, nil
	}
	m.formErr = ""
	m.formNotice = ""
	title := strings.TrimSpace(m.createTitle.Value())
	desc := strings.TrimSpace(m.createDesc.Value())
	status := model.AllowedStatuses()[m.createStat]
	// Validation failures stay local: no request, no log entry.
	if err := validation.CheckTask(validation.TaskInput{Title: title, Description: desc, Status: status}); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	seq := m.nextSeq()
	m.pendingCreate = seq
	return m, createTaskCmd(m.deps.Tasks, seq, title, desc, status)
}

func (m appModel) updateListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// updatePickerKey drives the update/delete flows: search narrows the picker,
// enter selects a row, and the field zone (update) or confirm modal (delete)
// completes the operation.
func (m appModel) updatePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.zone {
	case zoneSearch:
		if msg.String() == "enter" {
			rows := m.filteredTasks()
			if len(rows) > 0 {
				m.zone = zonePicker
				m.blurDashboard()
				m.cursor = 0
			}
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			// New search resets the selection.
			m.deps.Tasks.ClearSelection()
			m.cursor = 0
		}
		return m, cmd

	case zonePicker:
		rows := m.filteredTasks()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor >= len(rows) {
				return m, nil
			}
			picked := rows[m.cursor]
			m.deps.Tasks.Select(picked)
			if m.tab == tabUpdate {
				m.editTitle.SetValue(picked.Title)
				m.editDesc.SetValue(picked.Description)
				m.editStat = statusIndex(picked.Status)
				m.zone = zoneFields
				m.setField(0)
				return m, nil
			}
			// Delete asks for explicit confirmation before calling the API.
			m.confirmOpen = true
			m.confirmFoc = confirmFocusCancel
			return m, nil
		}
		return m, nil

	case zoneFields:
		switch msg.String() {
		case "enter":
			return m.submitUpdate()
		case "left", "right":
			if m.fieldIdx == 2 {
				m.editStat = cycleStatus(m.editStat, msg.String())
				return m, nil
			}
		}
		var cmd tea.Cmd
		switch m.fieldIdx {
		case 0:
			m.editTitle, cmd = m.editTitle.Update(msg)
		case 1:
			m.editDesc, cmd = m.editDesc.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m appModel) submitUpdate() (tea.Model, tea.Cmd) {
	if m.pendingUpdate != 0 {
		return m, nil
	}
	m.formErr = ""
	m.formNotice = ""
	if _, ok := m.deps.Tasks.Selected(); !ok {
		m.formErr = msgSelectToUpdate
		return m, nil
	}
	title := strings.TrimSpace(m.editTitle.Value())
	desc := strings.TrimSpace(m.editDesc.Value())
	status := model.AllowedStatuses()[m.editStat]
	if err := validation.CheckTask(validation.TaskInput{Title: title, Description: desc, Status: status}); err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	seq := m.nextSeq()
	m.pendingUpdate = seq
	return m, updateTaskCmd(m.deps.Tasks, seq, title, desc, status)
}

func (m appModel) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.confirmFoc == confirmFocusConfirm {
			m.confirmFoc = confirmFocusCancel
		} else {
			m.confirmFoc = confirmFocusConfirm
		}
		return m, nil
	case "esc", "n":
		m.confirmOpen = false
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirmFoc == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.confirmOpen = false
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	m.confirmOpen = false
	if m.pendingDelete != 0 {
		return m, nil
	}
	if _, ok := m.deps.Tasks.Selected(); !ok {
		m.formErr = msgSelectToDelete
		return m, nil
	}
	m.formErr = ""
	m.formNotice = ""
	seq := m.nextSeq()
	m.pendingDelete = seq
	return m, deleteTaskCmd(m.deps.Tasks, seq)
}

func cycleStatus(cur int, key string) int {
	n := len(model.AllowedStatuses())
	if key == "left" {
		return (cur - 1 + n) % n
	}
	return (cur + 1) % n
}

func statusIndex(s model.Status) int {
	for i, st := range model.AllowedStatuses() {
		if st == s {
			return i
		}
	}
	return 0
}
