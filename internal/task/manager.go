// Package task owns the in-memory task collection for the current session:
// CRUD against the remote API, local search, selection for the update/delete
// flows, and per-operation in-flight gating.
package task

import (
	"context"
	"errors"
	"strings"
	"sync"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/validation"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoSelection is returned by update/delete when no task is selected.
	ErrNoSelection = errors.New("select a task first")
	// ErrBusy is returned when the same operation category is already in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNotLoggedIn short-circuits listing before any network call.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Op is an operation category. Each category gates its own trigger; different
// categories are not mutually exclusive.
type Op int

const (
	OpList Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

// TokenSource reports whether a session token is stored. *session.Store
// satisfies this.
type TokenSource interface {
	Token() string
}

type Manager struct {
	api    *api.Client
	tokens TokenSource
	log    *logrus.Logger

	mu       sync.Mutex
	tasks    []model.Task
	selected *model.Task
	busy     [4]bool
}

func NewManager(client *api.Client, tokens TokenSource, log *logrus.Logger) *Manager {
	return &Manager{api: client, tokens: tokens, log: log}
}

// Tasks returns the cached collection. It is a transient copy; callers must
// re-list after any mutation rather than patch it locally.
func (m *Manager) Tasks() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Search filters the loaded collection by case-insensitive substring match on
// the title only. It never re-fetches.
func (m *Manager) Search(term string) []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(term)
	var out []model.Task
	for _, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) Select(t model.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel := t
	m.selected = &sel
}

func (m *Manager) Selected() (model.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return model.Task{}, false
	}
	return *m.selected, true
}

// ClearSelection drops the selection (new search, tab change, successful delete).
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
}

func (m *Manager) Busy(op Op) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy[op]
}

func (m *Manager) begin(op Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy[op] {
		return ErrBusy
	}
	m.busy[op] = true
	return nil
}

func (m *Manager) end(op Op) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy[op] = false
}

// List fetches the collection. Without a stored token it fails locally with
// ErrNotLoggedIn and performs no network call.
func (m *Manager) List(ctx context.Context) ([]model.Task, error) {
	if strings.TrimSpace(m.tokens.Token()) == "" {
		return nil, ErrNotLoggedIn
	}
	if err := m.begin(OpList); err != nil {
		return nil, err
	}
	defer m.end(OpList)

	tasks, err := m.api.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.tasks = tasks
	m.mu.Unlock()
	return tasks, nil
}

// Create validates locally, then posts. The new task only enters the cached
// collection through a subsequent List.
func (m *Manager) Create(ctx context.Context, title, description string, status model.Status) (model.Task, error) {
	if err := validation.CheckTask(validation.TaskInput{Title: title, Description: description, Status: status}); err != nil {
		return model.Task{}, err
	}
	if err := m.begin(OpCreate); err != nil {
		return model.Task{}, err
	}
	defer m.end(OpCreate)

	return m.api.CreateTask(ctx, api.TaskInput{Title: title, Description: description, Status: status})
}

// Update requires a selection and valid edited fields.
func (m *Manager) Update(ctx context.Context, title, description string, status model.Status) (model.Task, error) {
	sel, ok := m.Selected()
	if !ok {
		return model.Task{}, ErrNoSelection
	}
	if err := validation.CheckTask(validation.TaskInput{Title: title, Description: description, Status: status}); err != nil {
		return model.Task{}, err
	}
	if err := m.begin(OpUpdate); err != nil {
		return model.Task{}, err
	}
	defer m.end(OpUpdate)

	return m.api.UpdateTask(ctx, sel.ID, api.TaskInput{Title: title, Description: description, Status: status})
}

// Delete requires a selection; confirmation happens in the UI before this is
// called. The selection is cleared only on success.
func (m *Manager) Delete(ctx context.Context) error {
	sel, ok := m.Selected()
	if !ok {
		return ErrNoSelection
	}
	if err := m.begin(OpDelete); err != nil {
		return err
	}
	defer m.end(OpDelete)

	if err := m.api.DeleteTask(ctx, sel.ID); err != nil {
		return err
	}
	m.ClearSelection()
	return nil
}
