// Package session persists the authentication token and user profile for the
// current login. No other component reads the underlying storage directly.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"taskdeck/internal/model"

	_ "modernc.org/sqlite"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Store is a small key/value table in a SQLite file under the state dir.
// Reads always hit the database, so a login or logout performed by another
// taskdeck process is observed on the next read. In-process subscribers are
// additionally notified through Watch.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	subs []chan struct{}
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage: WAL enables one writer + many
	// readers; busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Token returns the stored access token, or "" when logged out.
// Best-effort: storage failures read as "no session".
func (s *Store) Token() string {
	v, _ := s.get(keyToken)
	return v
}

// User returns the stored profile, or nil when logged out or unreadable.
func (s *Store) User() *model.User {
	v, err := s.get(keyUser)
	if err != nil || v == "" {
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil
	}
	return &u
}

// Session reads token and user inside one transaction so a concurrent Set
// never yields a half-written pair.
func (s *Store) Session() model.Session {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return model.Session{}
	}
	defer func() { _ = tx.Rollback() }()

	tok, _ := getTx(tx, keyToken)
	raw, _ := getTx(tx, keyUser)

	sess := model.Session{Token: tok}
	if raw != "" {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			sess.User = &u
		}
	}
	return sess
}

// Set stores the token and profile atomically.
func (s *Store) Set(token string, user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, kv := range [][2]string{{keyToken, token}, {keyUser, string(raw)}} {
		if _, err := tx.Exec(
			`INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv[0], kv[1],
		); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear removes both keys together (logout).
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Watch returns a channel that receives a signal after every mutation made
// through this Store. The channel is buffered; slow subscribers coalesce
// signals rather than block mutations.
func (s *Store) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func getTx(tx *sql.Tx, key string) (string, error) {
	var v string
	err := tx.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}
