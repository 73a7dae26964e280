package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/migrations"
)

// MigrationState describes one migration and whether it has been applied.
type MigrationState struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrate applies every pending migration and returns the versions applied.
func Migrate(ctx context.Context, dsn string) ([]int64, error) {
	var applied []int64
	err := withProvider(ctx, dsn, migrations.FS, func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		for _, r := range results {
			if r.Error != nil {
				continue
			}
			applied = append(applied, r.Source.Version)
			slog.Info("migration applied",
				"version", r.Source.Version,
				"path", r.Source.Path,
				"duration_ms", r.Duration.Milliseconds(),
			)
		}
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
	return applied, err
}

// MigrationStatus lists every known migration in version order.
func MigrationStatus(ctx context.Context, dsn string) ([]MigrationState, error) {
	var states []MigrationState
	err := withProvider(ctx, dsn, migrations.FS, func(p *goose.Provider) error {
		status, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range status {
			states = append(states, MigrationState{
				Version:   s.Source.Version,
				Path:      s.Source.Path,
				Applied:   s.State == goose.StateApplied,
				AppliedAt: s.AppliedAt,
			})
		}
		return nil
	})
	return states, err
}

// withProvider opens a database/sql handle on dsn, since goose requires one.
func withProvider(ctx context.Context, dsn string, fsys fs.FS, fn func(*goose.Provider) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", classify(err))
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	return fn(provider)
}
