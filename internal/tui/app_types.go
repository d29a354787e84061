package tui

import (
	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

type screen int

const (
	screenAuth screen = iota
	screenDashboard
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// tab is the closed set of dashboard views. Analytics is only reachable for
// admin sessions.
type tab int

const (
	tabCreate tab = iota
	tabList
	tabUpdate
	tabDelete
	tabAnalytics
)

func (t tab) title() string {
	switch t {
	case tabCreate:
		return "Create"
	case tabList:
		return "List"
	case tabUpdate:
		return "Update"
	case tabDelete:
		return "Delete"
	case tabAnalytics:
		return "Analytics"
	}
	return ""
}

// Async results carry the sequence number of the request that produced them.
// A result whose seq no longer matches the pending seq for its category is
// stale (superseded request, tab change, or logout) and must be discarded
// without touching state.

type loginDoneMsg struct {
	seq int
	// username is the submitted name, kept as a fallback when the response
	// omits one.
	username string
	res      api.LoginResult
	err      error
}

type registerDoneMsg struct {
	seq int
	err error
}

type tasksLoadedMsg struct {
	seq   int
	tasks []model.Task
	err   error
}

type createDoneMsg struct {
	seq int
	err error
}

type updateDoneMsg struct {
	seq int
	err error
}

type deleteDoneMsg struct {
	seq int
	err error
}

type analyticsLoadedMsg struct {
	seq  int
	snap model.AnalyticsSnapshot
	err  error
}

// sessionChangedMsg arrives when another process mutated the session store.
type sessionChangedMsg struct{}

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// focusZone orders the focusable controls within the active tab.
type focusZone int

const (
	zoneSearch focusZone = iota
	zonePicker
	zoneFields
)
