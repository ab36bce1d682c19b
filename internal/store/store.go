// Package store owns the database: connection bootstrap, schema migration,
// seed data, and all reads and writes. No other package touches SQL.
//
// Two drivers are supported. Production runs on Postgres via lib/pq,
// including the lazy-create path: when the configured database does not
// exist yet, the store connects to the maintenance database, issues
// CREATE DATABASE, and retries. The pure-Go modernc.org/sqlite driver backs
// the test suite with per-test in-memory databases and works as a
// single-file deployment option.
//
// Every statement auto-commits on its own; there are no multi-statement
// transactions anywhere in the system.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a query matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps the shared *sql.DB pool. database/sql is safe for concurrent
// use; the pool hands out connections per statement.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database. driver is "postgres" or "sqlite".
//
// For postgres, a ping failure with SQLSTATE 3D000 (invalid_catalog_name)
// means the target database has never been created; Open then creates it
// through the maintenance database and retries once. Any other failure
// propagates to the caller.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		if driver == "postgres" && isMissingDatabase(err) {
			db.Close()
			if err := createDatabase(dsn); err != nil {
				return nil, err
			}
			if db, err = sql.Open(driver, dsn); err != nil {
				return nil, fmt.Errorf("reopen db: %w", err)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return nil, fmt.Errorf("ping after create: %w", err)
			}
		} else {
			db.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
	}

	return &Store{db: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// isMissingDatabase reports whether err is Postgres "database does not
// exist" (invalid_catalog_name).
func isMissingDatabase(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "3D000"
}

var dbnameRe = regexp.MustCompile(`dbname=(\S+)`)

// createDatabase connects to the maintenance database named in the same
// DSN and issues CREATE DATABASE for the missing target.
func createDatabase(dsn string) error {
	m := dbnameRe.FindStringSubmatch(dsn)
	if m == nil {
		return errors.New("create database: no dbname in DSN")
	}
	dbname := m[1]
	slog.Info("database missing, creating it", "name", dbname)

	maintDSN := dbnameRe.ReplaceAllString(dsn, "dbname=postgres")
	maint, err := sql.Open("postgres", maintDSN)
	if err != nil {
		return fmt.Errorf("open maintenance db: %w", err)
	}
	defer maint.Close()

	if _, err := maint.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbname)); err != nil {
		return fmt.Errorf("create database %s: %w", dbname, err)
	}
	slog.Info("database created", "name", dbname)
	return nil
}

// Migrate runs every DDL statement in the driver's schema. All statements
// are CREATE TABLE IF NOT EXISTS, so calling this on every startup is safe.
//
// The statements run one by one: the sqlite driver executes only the first
// statement of a multi-statement string, so the schema is split on ";".
func (s *Store) Migrate(ctx context.Context) error {
	schema := pgSchema
	if s.driver == "sqlite" {
		schema = sqliteSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

// The two dialects differ only in key generation and timestamp types. Row
// timestamps are always written explicitly by the store, so the column
// defaults exist only as a safety net.

const pgSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            SERIAL PRIMARY KEY,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS games (
    id          SERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL,
    year        INT NOT NULL,
    url         TEXT,
    image_path  TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin      BOOLEAN NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS games (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    description TEXT NOT NULL,
    year        INTEGER NOT NULL,
    url         TEXT,
    image_path  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
