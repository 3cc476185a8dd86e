// Package history keeps a log of finished launcher sessions in sqlite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yllada/lexair-launcher/common"
	"github.com/yllada/lexair-launcher/launcher"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	mode       TEXT NOT NULL,
	width      INTEGER NOT NULL DEFAULT 0,
	height     INTEGER NOT NULL DEFAULT 0,
	started_at INTEGER NOT NULL,
	ended_at   INTEGER NOT NULL,
	seconds    INTEGER NOT NULL,
	reason     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
`

// Entry is one recorded session.
type Entry struct {
	ID        string
	Mode      string
	Width     int
	Height    int
	StartedAt time.Time
	EndedAt   time.Time
	Seconds   int
	Reason    string
}

// Summary aggregates all recorded sessions.
type Summary struct {
	Sessions     int
	TotalSeconds int
	LastEnded    time.Time
}

// recordTimeout bounds one background insert.
const recordTimeout = 5 * time.Second

// Store is the session history database.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// DefaultPath returns the history database location.
func DefaultPath() (string, error) {
	dir, err := common.GetDataDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}
	return filepath.Join(dir, common.HistoryFileName), nil
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", common.ErrHistoryUnavailable, err)
	}

	common.LogDebug("Session history opened at %s", path)
	return &Store{db: db}, nil
}

// Close waits for background writes started by RecordAsync, then closes
// the database.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.pending.Wait()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordAsync stores info from a background goroutine and passes the result
// to done, which may be nil. Close does not return before the write ends.
func (s *Store) RecordAsync(info launcher.SessionInfo, done func(error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if done != nil {
			done(fmt.Errorf("%w: store closed", common.ErrHistoryUnavailable))
		}
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		err := s.Record(ctx, info)
		cancel()
		if done != nil {
			done(err)
		}
	}()
}

// Record stores a finished session. Recording the same session twice
// keeps the first row.
func (s *Store) Record(ctx context.Context, info launcher.SessionInfo) error {
	if info.ID == "" {
		return fmt.Errorf("%w: session without id", common.ErrHistoryUnavailable)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(id, mode, width, height, started_at, ended_at, seconds, reason)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		info.ID, info.Mode.String(), info.Width, info.Height,
		info.StartedAt.Unix(), info.EndedAt.Unix(), int(info.Duration.Seconds()), string(info.Reason),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}
	return nil
}

// List returns the most recent sessions first. A limit of 0 or less returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, mode, width, height, started_at, ended_at, seconds, reason
		FROM sessions ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started, ended int64
		if err := rows.Scan(&e.ID, &e.Mode, &e.Width, &e.Height, &started, &ended, &e.Seconds, &e.Reason); err != nil {
			return nil, err
		}
		e.StartedAt = time.Unix(started, 0)
		e.EndedAt = time.Unix(ended, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Summary returns the session count, total open time and last end time.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var last int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(seconds), 0), COALESCE(MAX(ended_at), 0) FROM sessions`,
	).Scan(&sum.Sessions, &sum.TotalSeconds, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", common.ErrHistoryUnavailable, err)
	}
	if last > 0 {
		sum.LastEnded = time.Unix(last, 0)
	}
	return sum, nil
}
