package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"textapi/internal/config"
)

//go:embed migrations
var embedded embed.FS

// NewProvider returns a goose provider over the embedded migrations for driver.
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(embedded, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return goose.NewProvider(dialect, db, fsys)
}

// Up applies every pending migration. It is safe to call on every start.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	log := slog.Default().With("component", "database", "driver", driver)
	start := time.Now()

	provider, err := NewProvider(db, driver)
	if err != nil {
		log.Error("db_migration_failed", "status", "error", "error_message", err.Error())
		return err
	}

	log.Info("db_migration_start", "status", "in_progress")

	results, err := provider.Up(ctx)
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		log.Info("db_migration_step",
			"status", "success",
			"migration_step", r.Source.Path,
			"version", r.Source.Version,
			"step_duration_ms", r.Duration.Milliseconds(),
		)
	}
	if err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("apply migrations: %w", err)
	}

	if len(results) == 0 {
		log.Info("db_migration_skip",
			"status", "success",
			"msg", "schema up to date",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_success",
		"status", "success",
		"applied", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
