package tui

import (
	"context"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/task"

	tea "github.com/charmbracelet/bubbletea"
)

// Commands run in their own goroutine; they only return messages and never
// touch the model. All state changes happen in Update.

func loginCmd(client *api.Client, seq int, username, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Login(context.Background(), username, password)
		return loginDoneMsg{seq: seq, username: username, res: res, err: err}
	}
}

func registerCmd(client *api.Client, seq int, username, password, email string) tea.Cmd {
	return func() tea.Msg {
		err := client.Register(context.Background(), username, password, email)
		return registerDoneMsg{seq: seq, err: err}
	}
}

func listTasksCmd(mgr *task.Manager, seq int) tea.Cmd {
	return func() tea.Msg {
		tasks, err := mgr.List(context.Background())
		return tasksLoadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func createTaskCmd(mgr *task.Manager, seq int, title, description string, status model.Status) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Create(context.Background(), title, description, status)
		return createDoneMsg{seq: seq, err: err}
	}
}

func updateTaskCmd(mgr *task.Manager, seq int, title, description string, status model.Status) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Update(context.Background(), title, description, status)
		return updateDoneMsg{seq: seq, err: err}
	}
}

func deleteTaskCmd(mgr *task.Manager, seq int) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Delete(context.Background())
		return deleteDoneMsg{seq: seq, err: err}
	}
}

func analyticsCmd(client *api.Client, seq int) tea.Cmd {
	return func() tea.Msg {
		snap, err := client.Analytics(context.Background())
		return analyticsLoadedMsg{seq: seq, snap: snap, err: err}
	}
}

// waitSessionCmd blocks on the store's change channel; each received signal
// becomes a sessionChangedMsg and Update re-arms the same channel.
func waitSessionCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return sessionChangedMsg{}
	}
}
