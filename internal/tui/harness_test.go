package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"taskdeck/internal/api"
	"taskdeck/internal/logging"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/task"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
)

// fakeAPI is an httptest stand-in for the remote task service.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu             sync.Mutex
	tasks          []model.Task
	nextID         int
	loginRole      string // "" omits the role field from the login response
	tokenRole      string // "" issues an opaque token instead of a JWT
	deleteStatus   int    // 0 means success
	analyticsCode  int    // 0 means success
	analytics      model.AnalyticsSnapshot
	listCalls      int
	createCalls    int
	updateCalls    int
	deleteCalls    int
	registerCalls  int
	analyticsCalls int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		t:      t,
		nextID: 100,
		tasks: []model.Task{
			{ID: 1, TaskNumber: 1, Title: "Test Task 1", Description: "first", Status: model.StatusTodo},
			{ID: 2, TaskNumber: 2, Title: "Other", Description: "second", Status: model.StatusDone},
			{ID: 7, TaskNumber: 3, Title: "Write minutes", Description: "third", Status: model.StatusInProgress},
		},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) token(username string) string {
	if f.tokenRole == "" {
		return "tok-" + username
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": f.tokenRole,
	}).SignedString([]byte("test-key"))
	if err != nil {
		f.t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		_ = r.ParseForm()
		username := r.PostFormValue("username")
		if r.PostFormValue("password") == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := map[string]string{
			"access_token": f.token(username),
			"username":     username,
		}
		if f.loginRole != "" {
			resp["role"] = f.loginRole
		}
		_ = json.NewEncoder(w).Encode(resp)

	case r.Method == http.MethodPost && r.URL.Path == "/auth/register":
		f.registerCalls++
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case r.URL.Path == "/tasks/" && r.Method == http.MethodGet:
		f.listCalls++
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(f.tasks)

	case r.URL.Path == "/tasks/" && r.Method == http.MethodPost:
		f.createCalls++
		var in api.TaskInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.nextID++
		t := model.Task{ID: f.nextID, TaskNumber: len(f.tasks) + 1, Title: in.Title, Description: in.Description, Status: in.Status}
		f.tasks = append(f.tasks, t)
		_ = json.NewEncoder(w).Encode(t)

	case strings.HasPrefix(r.URL.Path, "/tasks/") && r.Method == http.MethodPut:
		f.updateCalls++
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/tasks/"))
		var in api.TaskInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				f.tasks[i].Title = in.Title
				f.tasks[i].Description = in.Description
				f.tasks[i].Status = in.Status
				_ = json.NewEncoder(w).Encode(f.tasks[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	case strings.HasPrefix(r.URL.Path, "/tasks/") && r.Method == http.MethodDelete:
		f.deleteCalls++
		if f.deleteStatus != 0 {
			w.WriteHeader(f.deleteStatus)
			return
		}
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/tasks/"))
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)

	case r.URL.Path == "/analytics" && r.Method == http.MethodGet:
		f.analyticsCalls++
		if f.analyticsCode != 0 {
			w.WriteHeader(f.analyticsCode)
			return
		}
		_ = json.NewEncoder(w).Encode(f.analytics)

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) counts() (list, create, update, del, analytics int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.updateCalls, f.deleteCalls, f.analyticsCalls
}

func newTestApp(t *testing.T, f *fakeAPI) (appModel, *session.Store) {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "session.sqlite"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := logging.Discard()
	client := api.New(f.srv.URL, store, log)
	m := newAppModel(Deps{
		Sessions: store,
		API:      client,
		Tasks:    task.NewManager(client, store, log),
		Log:      log,
	})
	return m, store
}

// press feeds one key and returns the new model plus any produced command.
func press(t *testing.T, m appModel, k string) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	return next.(appModel), cmd
}

// drain runs commands to completion, feeding each resulting message back
// into Update, the way the Bubble Tea runtime would.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(appModel)
	}
	return m
}

// pressAndDrain is press plus drain: the synchronous view of one user action.
func pressAndDrain(t *testing.T, m appModel, k string) appModel {
	t.Helper()
	next, cmd := press(t, m, k)
	return drain(t, next, cmd)
}

func typeString(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(appModel)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case "f4":
		return tea.KeyMsg{Type: tea.KeyF4}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// login drives the auth form to a logged-in dashboard.
func login(t *testing.T, m appModel, username, password string) appModel {
	t.Helper()
	m = typeString(t, m, username)
	m, _ = press(t, m, "tab")
	m = typeString(t, m, password)
	m = pressAndDrain(t, m, "enter")
	if m.screen != screenDashboard {
		t.Fatalf("expected dashboard after login; still on auth (err=%q)", m.authErr)
	}
	return m
}
