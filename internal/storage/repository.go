package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteRepository reads the invoicing tables. Every operation runs on its
// own connection, acquired on entry and closed before returning.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(ctx, dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// No idle pool: a released connection is closed, not parked.
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// OpenDB opens the database without migrating it, for maintenance commands
// that must not change the schema implicitly.
func OpenDB(dbPath string) (*sql.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return db, nil
}

// OpenSQLiteRepository wraps an existing database without migrating it.
func OpenSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// dsn builds a file: URI that enables foreign keys and a busy timeout on
// every connection. Path segments are escaped so '?', '#' and '%' in the
// path stay part of the file name.
func dsn(dbPath string) string {
	segments := strings.Split(filepath.ToSlash(dbPath), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file:" + strings.Join(segments, "/") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that a connection can be opened.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}

// DB exposes the handle for maintenance commands and tests.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

// withConn acquires a dedicated connection, runs fn and releases the
// connection on every exit path.
func (r *SQLiteRepository) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}
