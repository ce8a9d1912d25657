package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spigell/intervu/internal/interview"
)

const (
	stateKeyActiveSession = "active_session"
	stateKeyActiveView    = "active_view"
)

// SQLite persists snapshots in a local sqlite database: completed sessions
// as one row per candidate, the active session and view as state keys.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		total_score INTEGER NOT NULL,
		summary TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		position INTEGER NOT NULL,
		session_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_candidates_score ON candidates(total_score DESC);
	CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position);

	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot wholesale inside one transaction.
func (s *SQLite) Save(ctx context.Context, snapshot *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
		return fmt.Errorf("clear candidates: %w", err)
	}

	for position, session := range snapshot.Roster {
		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session %s: %w", session.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (id, name, email, total_score, summary, created_at, position, session_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, session.ID, session.Name, session.Email, session.TotalScore, session.Summary,
			session.CreatedAt, position, sessionJSON); err != nil {
			return fmt.Errorf("insert candidate %s: %w", session.ID, err)
		}
	}

	if snapshot.Active != nil {
		activeJSON, err := json.Marshal(snapshot.Active)
		if err != nil {
			return fmt.Errorf("marshal active session: %w", err)
		}
		if err := setState(ctx, tx, stateKeyActiveSession, string(activeJSON)); err != nil {
			return err
		}
	} else if _, err := tx.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, stateKeyActiveSession); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}

	view := snapshot.ActiveView
	if view == "" {
		view = ViewInterviewee
	}
	if err := setState(ctx, tx, stateKeyActiveView, string(view)); err != nil {
		return err
	}

	return tx.Commit()
}

// Load reassembles the snapshot. ErrNotFound is returned when nothing has
// ever been saved.
func (s *SQLite) Load(ctx context.Context) (*Snapshot, error) {
	view, viewErr := s.getState(ctx, stateKeyActiveView)

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_json FROM candidates ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var sessions []*interview.Session
	for rows.Next() {
		var sessionJSON string
		if err := rows.Scan(&sessionJSON); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		var session interview.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if viewErr == sql.ErrNoRows && len(sessions) == 0 {
		return nil, ErrNotFound
	}
	if viewErr != nil && viewErr != sql.ErrNoRows {
		return nil, fmt.Errorf("read active view: %w", viewErr)
	}

	snapshot := &Snapshot{
		Roster:     sessions,
		ActiveView: View(view),
	}
	if snapshot.ActiveView == "" {
		snapshot.ActiveView = ViewInterviewee
	}

	activeJSON, err := s.getState(ctx, stateKeyActiveSession)
	if err == nil {
		var active interview.Session
		if err := json.Unmarshal([]byte(activeJSON), &active); err != nil {
			return nil, fmt.Errorf("unmarshal active session: %w", err)
		}
		snapshot.Active = &active
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("read active session: %w", err)
	}

	return snapshot, nil
}

func (s *SQLite) getState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	return value, err
}

func setState(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}
