package model

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// AllowedStatuses is the closed set of task states the backend accepts.
func AllowedStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          int       `json:"id"`
	TaskNumber  int       `json:"task_number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"created_at,omitempty"`
}

// Timestamp tolerates the timestamp shapes the backend emits: RFC 3339,
// zone-less datetimes, or a bare date. Missing/unparseable reads as zero.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Display is the list/table rendering; the dash mirrors "no timestamp".
func (t Timestamp) Display() string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04")
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Session is the client-side identity for the current login. Token and User
// are present together or not at all; anything else counts as logged out.
type Session struct {
	Token string
	User  *User
}

func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

func (s Session) IsAdmin() bool {
	return s.LoggedIn() && s.User.Role == RoleAdmin
}

// AnalyticsSnapshot is a point-in-time aggregate read. It is refetched on
// every view entry and never cached.
type AnalyticsSnapshot struct {
	Total       int            `json:"total"`
	Todo        int            `json:"Todo"`
	InProgress  int            `json:"In Progress"`
	Done        int            `json:"Done"`
	TasksPerDay map[string]int `json:"tasks_per_day"`
	CurrentTime string         `json:"current_time"`
}
