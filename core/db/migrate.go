package db

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// MigrateUp applies all pending migrations.
func (db *DB) MigrateUp(ctx context.Context) error {
	return db.withGoose(func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
		for _, r := range results {
			slog.InfoContext(ctx, "migration applied",
				"version", r.Source.Version,
				"path", r.Source.Path,
				"duration_ms", r.Duration.Milliseconds())
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(ctx context.Context) error {
	return db.withGoose(func(p *goose.Provider) error {
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		if r != nil {
			slog.InfoContext(ctx, "migration rolled back", "version", r.Source.Version, "path", r.Source.Path)
		}
		return nil
	})
}

// MigrationStatus writes one line per known migration to w.
func (db *DB) MigrationStatus(ctx context.Context, w io.Writer) error {
	return db.withGoose(func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%05d  %-30s  %s\n", s.Source.Version, s.Source.Path, applied)
		}
		return nil
	})
}

func (db *DB) withGoose(fn func(p *goose.Provider) error) error {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	migrations, err := fs.Sub(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations, goose.WithVerbose(false))
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	return fn(provider)
}
