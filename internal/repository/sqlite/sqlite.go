// Package sqlite provides the SQLite data store adapter. It satisfies the
// same contract and error taxonomy as the PostgreSQL repository.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/quillpad/quillpad/internal/repository"
)

//go:embed schema.sql
var schemaSQL string

// URLPrefix marks a DATABASE_URL that should be served by this adapter.
const URLPrefix = "sqlite:"

// Store provides database access methods backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// IsURL reports whether databaseURL names a SQLite database.
func IsURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, URLPrefix)
}

// DSN converts a sqlite: URL into a go-sqlite3 data source name with WAL,
// a busy timeout and foreign key enforcement enabled.
func DSN(databaseURL string) string {
	path := strings.TrimPrefix(databaseURL, URLPrefix)
	path = strings.TrimPrefix(path, "//")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

// Open opens the database at databaseURL and ensures the schema exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("sqlite3", DSN(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Panics are rethrown.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}

func isUniqueViolation(err error) bool {
	return extendedCode(err) == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	return extendedCode(err) == sqlite3.ErrConstraintForeignKey
}

func extendedCode(err error) sqlite3.ErrNoExtended {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode
	}
	return 0
}
