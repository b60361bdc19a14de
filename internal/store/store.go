package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"attr-composer/composition"
	"attr-composer/internal/inflect"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("record not found")

// Store is a SQLite database holding host records.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the SQLite database at dsn. In-memory databases are limited
// to a single connection so every query sees the same data.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dsn, err)
	}

	s := New(db, logger)
	s.logger.Debug("opened store", "dsn", dsn)

	return s, nil
}

// New wraps an open database.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{db: db, logger: logger}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Table returns the table of a host type. The table is named after the
// type: User is stored in "users".
func (s *Store) Table(t *composition.Type) (*Table, error) {
	if t == nil || t.Kind() != composition.KindHost {
		return nil, fmt.Errorf("%w: only host types have tables", composition.ErrInvalidDeclaration)
	}

	return &Table{
		store:   s,
		typ:     t,
		name:    inflect.Underscore(t.Name()) + "s",
		columns: t.Columns(),
	}, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
