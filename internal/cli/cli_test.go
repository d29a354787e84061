package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskdeck/internal/model"
)

func fakeServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	createCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			_ = r.ParseForm()
			if r.PostFormValue("password") == "wrong" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token": "tok-1",
				"username":     r.PostFormValue("username"),
				"role":         "user",
			})
		case r.Method == http.MethodGet && r.URL.Path == "/tasks/":
			_ = json.NewEncoder(w).Encode([]model.Task{
				{ID: 1, TaskNumber: 1, Title: "Test Task 1", Status: model.StatusTodo},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/":
			createCalls++
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(model.Task{ID: 2, Title: "x"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &createCalls
}

// run executes one taskdeck invocation against a fresh command tree, the way
// main does, and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv, _ := fakeServer(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TASKDECK_STATE_DIR", t.TempDir())

	out, err := run(t, "login", "--username", "alice", "--password", "Secret1!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, `"name":"alice"`) {
		t.Fatalf("expected login identity in output; got %q", out)
	}

	out, err = run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"logged_in":true`) || !strings.Contains(out, `"role":"user"`) {
		t.Fatalf("expected stored session in output; got %q", out)
	}

	if _, err := run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err = run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami after logout: %v", err)
	}
	if !strings.Contains(out, `"logged_in":false`) {
		t.Fatalf("expected logged out; got %q", out)
	}
}

func TestLoginBadPassword(t *testing.T) {
	srv, _ := fakeServer(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TASKDECK_STATE_DIR", t.TempDir())

	_, err := run(t, "login", "--username", "alice", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "invalid username or password") {
		t.Fatalf("expected credential error; got %v", err)
	}

	out, err := run(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"logged_in":false`) {
		t.Fatalf("failed login must not store a session; got %q", out)
	}
}

func TestTasksCreateValidatesBeforeRequest(t *testing.T) {
	srv, createCalls := fakeServer(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TASKDECK_STATE_DIR", t.TempDir())

	if _, err := run(t, "login", "--username", "alice", "--password", "Secret1!"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err := run(t, "tasks", "create", "--description", "no title")
	if err == nil || err.Error() != "Title is required" {
		t.Fatalf("expected local title validation; got %v", err)
	}
	if *createCalls != 0 {
		t.Fatalf("validation failure must not reach the API; got %d calls", *createCalls)
	}
}

func TestTasksDeleteRequiresConfirmation(t *testing.T) {
	srv, _ := fakeServer(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TASKDECK_STATE_DIR", t.TempDir())

	if _, err := run(t, "login", "--username", "alice", "--password", "Secret1!"); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err := run(t, "tasks", "delete", "--id", "1")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error; got %v", err)
	}
}

func TestAnalyticsRequiresAdmin(t *testing.T) {
	srv, _ := fakeServer(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("TASKDECK_STATE_DIR", t.TempDir())

	_, err := run(t, "analytics")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected login requirement; got %v", err)
	}

	if _, err := run(t, "login", "--username", "bob", "--password", "Secret1!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = run(t, "analytics")
	if err == nil || !strings.Contains(err.Error(), "restricted to admins") {
		t.Fatalf("expected admin requirement; got %v", err)
	}
}
