package session

import (
	"path/filepath"
	"testing"

	"taskdeck/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	if err := s.Set("tok-123", model.User{Name: "alice", Role: model.RoleAdmin}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if got := s.Token(); got != "tok-123" {
		t.Fatalf("expected token tok-123; got %q", got)
	}
	u := s.User()
	if u == nil || u.Name != "alice" || u.Role != model.RoleAdmin {
		t.Fatalf("unexpected user %+v", u)
	}
	sess := s.Session()
	if !sess.LoggedIn() || !sess.IsAdmin() {
		t.Fatalf("expected logged-in admin session; got %+v", sess)
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	if err := s.Set("tok", model.User{Name: "bob", Role: model.RoleUser}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Token(); got != "" {
		t.Fatalf("expected empty token after clear; got %q", got)
	}
	if u := s.User(); u != nil {
		t.Fatalf("expected nil user after clear; got %+v", u)
	}
	if s.Session().LoggedIn() {
		t.Fatalf("expected logged-out session after clear")
	}
}

func TestStore_CrossProcessVisibility(t *testing.T) {
	t.Parallel()

	// Two stores on the same file stand in for two taskdeck processes.
	s1, path := openTestStore(t)
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	defer func() { _ = s2.Close() }()

	if err := s1.Set("tok-other", model.User{Name: "carol", Role: model.RoleUser}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// The other handle must see the write on its next read, no reload step.
	if got := s2.Token(); got != "tok-other" {
		t.Fatalf("expected cross-handle read of tok-other; got %q", got)
	}
	if err := s2.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s1.Token(); got != "" {
		t.Fatalf("expected logout visible across handles; got %q", got)
	}
}

func TestStore_WatchNotifiesOnMutation(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	ch := s.Watch()

	if err := s.Set("tok", model.User{Name: "dave", Role: model.RoleUser}); err != nil {
		t.Fatalf("set: %v", err)
	}
	select {
	case <-ch:
	default:
		t.Fatalf("expected a notification after Set")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	select {
	case <-ch:
	default:
		t.Fatalf("expected a notification after Clear")
	}
}
