package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	applog "invoicestats/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const reportIndexesMigration = "migrations/000002_add_report_indexes.up.sql"

// RunMigrations applies the embedded migrations and then brings databases
// created by older tooling up to the current invoice shape. It is the only
// place the schema changes at runtime and is meant to run once, before the
// service accepts traffic.
func RunMigrations(ctx context.Context, dbPath string) error {
	// Separate connection so migration state never leaks into the request pool
	migrateDB, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := EnsureLegacySchema(ctx, migrateDB); err != nil {
		return err
	}

	storageLogger(ctx).InfoContext(ctx, "Database schema up to date",
		applog.FieldOperation, applog.OpMigrate,
		applog.FieldDBPath, dbPath)
	return nil
}

func storageLogger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentStorage)
}

// EnsureLegacySchema adds what databases created before the paid flag or
// renamed from singular table names are missing. Every step inspects the
// schema first, so it is safe to call repeatedly.
func EnsureLegacySchema(ctx context.Context, db *sql.DB) error {
	if err := ensurePaidColumn(ctx, db); err != nil {
		return err
	}
	if err := ensureReportIndexes(ctx, db); err != nil {
		return err
	}
	return nil
}

func ensurePaidColumn(ctx context.Context, db *sql.DB) error {
	cols, err := tableColumns(ctx, db, "invoices")
	if err != nil {
		return fmt.Errorf("inspect invoices columns: %w", err)
	}
	if len(cols) == 0 {
		return fmt.Errorf("inspect invoices columns: table invoices does not exist")
	}
	for _, c := range cols {
		if c.Name == "paid" {
			return nil
		}
	}

	if _, err := db.ExecContext(ctx, `ALTER TABLE invoices ADD COLUMN paid INTEGER DEFAULT 0`); err != nil {
		return fmt.Errorf("add paid column: %w", err)
	}
	storageLogger(ctx).InfoContext(ctx, "Added paid column",
		applog.FieldOperation, applog.OpMigrate,
		applog.FieldTable, "invoices")
	return nil
}

func ensureReportIndexes(ctx context.Context, db *sql.DB) error {
	stmts, err := migrationsFS.ReadFile(reportIndexesMigration)
	if err != nil {
		return fmt.Errorf("read index migration: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(stmts)); err != nil {
		return fmt.Errorf("create report indexes: %w", err)
	}
	return nil
}
