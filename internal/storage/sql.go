package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Schema string
	Get    string
	Set    string
	// Lock, when set, takes a transaction-scoped lock on one key so that
	// updates from other processes wait their turn.
	Lock string
}

var SQLite = Dialect{
	Name: "sqlite",
	Schema: `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	Get: `SELECT value FROM kv WHERE key = ?`,
	Set: `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

var Postgres = Dialect{
	Name: "postgres",
	Schema: `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	Get: `SELECT value FROM kv WHERE key = $1`,
	Set: `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	Lock: `SELECT pg_advisory_xact_lock(hashtext($1))`,
}

// SQL stores keys in a single kv table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	locks   *keyedMutex
}

// NewSQL creates the kv table if needed.
func NewSQL(ctx context.Context, db *sql.DB, d Dialect) (*SQL, error) {
	if _, err := db.ExecContext(ctx, d.Schema); err != nil {
		return nil, fmt.Errorf("creating %s kv table: %w", d.Name, err)
	}
	return &SQL{db: db, dialect: d, locks: newKeyedMutex()}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", failure("get", key, err)
	}
	return value, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Set, key, value); err != nil {
		return failure("set", key, err)
	}
	return nil
}

// Update serialises writers of key in this process and, on dialects with a
// Lock statement, across processes too.
func (s *SQL) Update(ctx context.Context, key string, fn UpdateFunc) error {
	unlock := s.locks.lock(key)
	defer unlock()

	if s.dialect.Lock == "" {
		return getThenSet(ctx, s, key, fn)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return failure("begin", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.Lock, key); err != nil {
		return failure("lock", key, err)
	}
	var current string
	found := true
	switch err := tx.QueryRowContext(ctx, s.dialect.Get, key).Scan(&current); {
	case errors.Is(err, sql.ErrNoRows):
		found = false
	case err != nil:
		return failure("get", key, err)
	}
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.dialect.Set, key, next); err != nil {
		return failure("set", key, err)
	}
	if err := tx.Commit(); err != nil {
		return failure("commit", key, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return failure("ping", s.dialect.Name, err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// OpenSQLiteMemory opens a private in-memory database (useful for testing).
func OpenSQLiteMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres opens a pgx-backed database/sql handle.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}
