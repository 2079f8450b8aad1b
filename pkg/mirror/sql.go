package mirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const documentsSchema = `CREATE TABLE IF NOT EXISTS documents (
	key TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	updated_at DATETIME NOT NULL
)`

// SQL keeps the document in a sqlite table
type SQL struct {
	db  *sqlx.DB
	key string
}

// NewSQL opens (or creates) the sqlite database at dsn
func NewSQL(ctx context.Context, dsn, key string) (*SQL, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	lgr.Printf("[DEBUG] sql mirror opened, key %s", key)
	return &SQL{db: db, key: key}, nil
}

// Load returns the stored document, nil if there is none
func (s *SQL) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.db.GetContext(ctx, &body, "SELECT body FROM documents WHERE key = ?", s.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", s.key, err)
	}
	return body, nil
}

// Store replaces the document, retrying on lock errors
func (s *SQL) Store(ctx context.Context, data []byte) error {
	query := `INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		if _, err := s.db.ExecContext(ctx, query, s.key, data, time.Now().UTC()); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("store document %s: %w", s.key, err)}
		}
		return nil
	}, errCritical)
}

// Close closes the database connection
func (s *SQL) Close() error {
	return s.db.Close()
}
