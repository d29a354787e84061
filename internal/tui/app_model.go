package tui

import (
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/guard"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/task"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Sessions *session.Store
	API      *api.Client
	Tasks    *task.Manager
	Log      *logrus.Logger
}

type appModel struct {
	deps Deps

	// sessionCh carries cross-context session store change signals.
	sessionCh <-chan struct{}

	width  int
	height int

	screen screen

	// Auth screen.
	mode       authMode
	loginUser  textinput.Model
	loginPass  textinput.Model
	regUser    textinput.Model
	regPass    textinput.Model
	regEmail   textinput.Model
	authFocus  int
	authErr    string
	authNotice string

	// Dashboard.
	tab         tab
	tasks       []model.Task
	search      textinput.Model
	cursor      int
	zone        focusZone
	fieldIdx    int
	createTitle textinput.Model
	createDesc  textinput.Model
	createStat  int
	editTitle   textinput.Model
	editDesc    textinput.Model
	editStat    int
	formErr     string
	formNotice  string
	loadErr     string

	confirmOpen bool
	confirmFoc  confirmFocus

	analytics *model.AnalyticsSnapshot

	// Pending request sequence per operation category; zero means idle.
	// Stale results (seq mismatch) are discarded, which is what keeps a late
	// response from mutating a view the user already left.
	seq              int
	pendingLogin     int
	pendingRegister  int
	pendingList      int
	pendingCreate    int
	pendingUpdate    int
	pendingDelete    int
	pendingAnalytics int
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
	}
	return in
}

func newAppModel(deps Deps) appModel {
	m := appModel{
		deps:        deps,
		sessionCh:   deps.Sessions.Watch(),
		loginUser:   newInput("Username", false),
		loginPass:   newInput("Password", true),
		regUser:     newInput("Username", false),
		regPass:     newInput("Password", true),
		regEmail:    newInput("Email (optional)", false),
		search:      newInput("Search task...", false),
		createTitle: newInput("Title", false),
		createDesc:  newInput("Description", false),
		editTitle:   newInput("Title", false),
		editDesc:    newInput("Description", false),
	}

	sess := deps.Sessions.Session()
	if guard.Decide(sess, guard.Authenticated) == guard.Admit && !session.Expired(sess.Token) {
		m.screen = screenDashboard
		m.tab = tabCreate
		m.focusDashboard()
	} else {
		m.screen = screenAuth
		m.loginUser.Focus()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return waitSessionCmd(m.sessionCh)
}

func (m *appModel) nextSeq() int {
	m.seq++
	return m.seq
}

func (m appModel) sess() model.Session {
	return m.deps.Sessions.Session()
}

// authFields are the focusable inputs of the visible auth sub-form.
func (m *appModel) authFields() []*textinput.Model {
	if m.mode == authLogin {
		return []*textinput.Model{&m.loginUser, &m.loginPass}
	}
	return []*textinput.Model{&m.regUser, &m.regPass, &m.regEmail}
}

func (m *appModel) setAuthFocus(i int) {
	fields := m.authFields()
	if len(fields) == 0 {
		return
	}
	m.authFocus = ((i % len(fields)) + len(fields)) % len(fields)
	for j, f := range fields {
		if j == m.authFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

func (m *appModel) toggleAuthMode() {
	for _, f := range m.authFields() {
		f.Blur()
	}
	if m.mode == authLogin {
		m.mode = authRegister
	} else {
		m.mode = authLogin
	}
	m.authErr = ""
	m.authNotice = ""
	m.setAuthFocus(0)
}

// visibleTabs hides analytics from non-admin sessions.
func (m appModel) visibleTabs() []tab {
	tabs := []tab{tabCreate, tabList, tabUpdate, tabDelete}
	if m.sess().IsAdmin() {
		tabs = append(tabs, tabAnalytics)
	}
	return tabs
}

// filteredTasks is the picker collection: the full loaded collection filtered
// by the current search term. A chosen selection does not narrow it, so the
// user can pick another task without deselecting first.
func (m appModel) filteredTasks() []model.Task {
	return m.deps.Tasks.Search(strings.TrimSpace(m.search.Value()))
}

func (m *appModel) blurDashboard() {
	for _, f := range []*textinput.Model{&m.search, &m.createTitle, &m.createDesc, &m.editTitle, &m.editDesc} {
		f.Blur()
	}
}

// focusDashboard puts focus on the first control of the active tab.
func (m *appModel) focusDashboard() {
	m.blurDashboard()
	switch m.tab {
	case tabCreate:
		m.zone = zoneFields
		m.fieldIdx = 0
		m.createTitle.Focus()
	case tabList, tabUpdate, tabDelete:
		m.zone = zoneSearch
		m.search.Focus()
	case tabAnalytics:
		m.zone = zoneFields
	}
}

// enterTab implements "entering tab X triggers fetch Y": list/update/delete
// re-fetch the task collection, analytics re-fetches the snapshot, create
// fetches nothing. Selection and search reset on every switch.
func (m appModel) enterTab(t tab) (appModel, tea.Cmd) {
	m.tab = t
	m.cursor = 0
	m.formErr = ""
	m.formNotice = ""
	m.loadErr = ""
	m.confirmOpen = false
	m.search.SetValue("")
	m.deps.Tasks.ClearSelection()
	m.editTitle.SetValue("")
	m.editDesc.SetValue("")
	m.editStat = 0
	m.focusDashboard()

	switch t {
	case tabList, tabUpdate, tabDelete:
		// A fetch already in flight serves this tab too; its result is still
		// wanted under the existing seq. Dispatching a second List here would
		// only trip the manager's busy gate.
		if m.pendingList != 0 {
			return m, nil
		}
		seq := m.nextSeq()
		m.pendingList = seq
		return m, listTasksCmd(m.deps.Tasks, seq)
	case tabAnalytics:
		seq := m.nextSeq()
		m.pendingAnalytics = seq
		m.analytics = nil
		return m, analyticsCmd(m.deps.API, seq)
	}
	return m, nil
}

// redirectToAuth returns to the entry screen, dropping every pending request
// so late results cannot touch the dashboard that is no longer shown.
func (m *appModel) redirectToAuth(notice string) {
	m.screen = screenAuth
	m.mode = authLogin
	m.authErr = notice
	m.authNotice = ""
	m.tasks = nil
	m.analytics = nil
	m.confirmOpen = false
	m.pendingLogin = 0
	m.pendingRegister = 0
	m.pendingList = 0
	m.pendingCreate = 0
	m.pendingUpdate = 0
	m.pendingDelete = 0
	m.pendingAnalytics = 0
	m.loginUser.SetValue("")
	m.loginPass.SetValue("")
	m.setAuthFocus(0)
}

func (m *appModel) logout() {
	if err := m.deps.Sessions.Clear(); err != nil {
		m.deps.Log.WithError(err).Error("clear session")
	}
	m.redirectToAuth("")
}
