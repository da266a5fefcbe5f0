// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/verte-zerg/rollcall/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for profiles and session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "failed to create data directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "failed to open sqlite")
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			picks INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_standings (
			session_id INTEGER NOT NULL,
			place INTEGER NOT NULL,
			name TEXT NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL,
			points INTEGER NOT NULL,
			PRIMARY KEY (session_id, place)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return eris.Wrap(err, "failed to migrate")
		}
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "failed to read %q", key)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return eris.Wrapf(err, "failed to write %q", key)
	}
	return nil
}

// InsertSession stores a finished session and its standings.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (profile, mode, started_at, ended_at, picks)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Profile,
		string(rec.Mode),
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Picks,
	)
	if err != nil {
		return 0, eris.Wrap(err, "failed to insert session")
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "failed to read session id")
	}

	if len(rec.Standings) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_standings (session_id, place, name, correct, wrong, points)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, eris.Wrap(err, "failed to prepare standings insert")
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, st := range rec.Standings {
			if _, err := stmt.ExecContext(ctx, id, st.Place, st.Name, st.Correct, st.Wrong, st.Points); err != nil {
				return 0, eris.Wrap(err, "failed to insert standing")
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "failed to commit session")
	}
	return id, nil
}

// ListSessions returns the most recent sessions, newest first, with standings.
// A non-positive limit returns every session.
func (s *Store) ListSessions(ctx context.Context, profile string, limit int) ([]model.SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, mode, started_at, ended_at, picks
		 FROM sessions
		 WHERE (? = '' OR profile = ?)
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`, profile, profile, limit)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list sessions")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var mode, startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &rec.Profile, &mode, &startedAt, &endedAt, &rec.Picks); err != nil {
			return nil, eris.Wrap(err, "failed to scan session")
		}
		rec.Mode = model.Mode(mode)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, eris.Wrap(err, "failed to parse started_at")
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, eris.Wrap(err, "failed to parse ended_at")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "failed to iterate sessions")
	}

	for i := range records {
		standings, err := s.listStandings(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Standings = standings
	}
	return records, nil
}

func (s *Store) listStandings(ctx context.Context, sessionID int64) ([]model.Standing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT place, name, correct, wrong, points
		 FROM session_standings
		 WHERE session_id = ?
		 ORDER BY place ASC`, sessionID)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list standings")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.Standing
	for rows.Next() {
		var st model.Standing
		if err := rows.Scan(&st.Place, &st.Name, &st.Correct, &st.Wrong, &st.Points); err != nil {
			return nil, eris.Wrap(err, "failed to scan standing")
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "failed to iterate standings")
	}
	return out, nil
}
