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
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtyMigration reports a migration that failed halfway and was forced clean.
var ErrDirtyMigration = errors.New("migration left database dirty")

func RunMigrations(dbPath string) error {
	// Create a separate connection for migrations to avoid interfering with the main connection
	migrateDB, err := sql.Open("sqlite", dbPath)
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
		version, dirty, verr := m.Version()
		if verr != nil || !dirty {
			return fmt.Errorf("run migrations: %w", err)
		}
		// Databases written before migrations were tracked may already hold
		// the column a migration adds. Keep the version and let the caller
		// reconcile the schema directly.
		if ferr := m.Force(int(version)); ferr != nil {
			return fmt.Errorf("force migration version %d: %w", version, ferr)
		}
		return fmt.Errorf("%w at version %d: %v", ErrDirtyMigration, version, err)
	}

	return nil
}

// ensureSchema creates the expenses table when missing and adds the optional
// date column to tables created before it existed.
func ensureSchema(ctx context.Context, q *Queries) error {
	if err := q.CreateExpensesTable(ctx); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	cols, err := q.TableColumns(ctx, "expenses")
	if err != nil {
		return fmt.Errorf("read expenses columns: %w", err)
	}
	for _, c := range cols {
		if c == "date" {
			return nil
		}
	}
	if err := q.AddDateColumn(ctx); err != nil {
		return fmt.Errorf("add date column: %w", err)
	}
	return nil
}
