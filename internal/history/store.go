package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// tsLayout sorts lexically in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session describes a stored history.
type Session struct {
	ID        string
	Index     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store keeps session histories in SQLite. Entry states are stored as BLOBs
// so the envelope's trailing NUL survives.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path is the database file. Its -wal sibling may hold recent pages.
func (s *Store) Path() string { return s.path }

func (s *Store) ts() string { return s.now().UTC().Format(tsLayout) }

// CreateSession starts a session whose only entry has url and no state.
func (s *Store) CreateSession(ctx context.Context, url string) (Session, error) {
	now := s.ts()
	sess := Session{ID: uuid.NewString()}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("begin create session: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions(session_id, current_index, created_at, updated_at) VALUES (?, 0, ?, ?)`, sess.ID, now, now); err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO entries(session_id, position, url, title, state, saved) VALUES (?, 0, ?, '', NULL, 0)`, sess.ID, url); err != nil {
		return Session{}, fmt.Errorf("insert first entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("commit create session: %w", err)
	}
	sess.CreatedAt, _ = time.Parse(tsLayout, now)
	sess.UpdatedAt = sess.CreatedAt
	return sess, nil
}

func (s *Store) session(ctx context.Context, q string, args ...any) (Session, error) {
	var (
		sess             Session
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&sess.ID, &sess.Index, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	if sess.CreatedAt, err = time.Parse(tsLayout, created); err != nil {
		return Session{}, fmt.Errorf("parse created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(tsLayout, updated); err != nil {
		return Session{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return sess, nil
}

// LatestSession is the most recently written session.
func (s *Store) LatestSession(ctx context.Context) (Session, error) {
	return s.session(ctx, `SELECT session_id, current_index, created_at, updated_at FROM sessions ORDER BY updated_at DESC, rowid DESC LIMIT 1`)
}

// LoadSession returns a session and its entries in order.
func (s *Store) LoadSession(ctx context.Context, id string) (Session, []Entry, error) {
	sess, err := s.session(ctx, `SELECT session_id, current_index, created_at, updated_at FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return Session{}, nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT url, title, state, saved FROM entries WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return Session{}, nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			state []byte
			saved bool
		)
		if err := rows.Scan(&e.URL, &e.Title, &state, &saved); err != nil {
			return Session{}, nil, fmt.Errorf("scan entry: %w", err)
		}
		if state != nil {
			e.State = &State{Hash: string(state), Saved: saved}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return Session{}, nil, fmt.Errorf("iterate entries: %w", err)
	}
	return sess, entries, nil
}

// SaveEntries replaces the stored entries of a session.
func (s *Store) SaveEntries(ctx context.Context, id string, entries []Entry, index int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save entries: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := touch(ctx, tx, id, index, s.ts()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for i, e := range entries {
		var (
			state any
			saved bool
		)
		if e.State != nil {
			state = []byte(e.State.Hash)
			saved = e.State.Saved
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO entries(session_id, position, url, title, state, saved) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, e.URL, e.Title, state, saved); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save entries: %w", err)
	}
	return nil
}

// ReplaceEntry overwrites the entry at position and makes it current.
func (s *Store) ReplaceEntry(ctx context.Context, id string, position int, e Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace entry: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := touch(ctx, tx, id, position, s.ts()); err != nil {
		return err
	}
	var (
		state any
		saved bool
	)
	if e.State != nil {
		state = []byte(e.State.Hash)
		saved = e.State.Saved
	}
	res, err := tx.ExecContext(ctx, `UPDATE entries SET url = ?, title = ?, state = ?, saved = ? WHERE session_id = ? AND position = ?`,
		e.URL, e.Title, state, saved, id, position)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", position, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %d: %w", position, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace entry: %w", err)
	}
	return nil
}

// SetIndex moves the current entry of a session.
func (s *Store) SetIndex(ctx context.Context, id string, index int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set index: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := touch(ctx, tx, id, index, s.ts()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set index: %w", err)
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, id string, index int, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET current_index = ?, updated_at = ? WHERE session_id = ?`, index, now, id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
