package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"b4b/internal/platform/logger"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration commands understood by Migrate
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// Migrations returns the embedded schema files rooted at the migrations dir
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// OpenSQL opens a database/sql handle through the pgx driver for tooling that needs one
func OpenSQL(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open sql: %w", err)
	}
	return db, nil
}

// migrate applies pending migrations over a database/sql view of the pool
func (a *pgAdapter) migrate(ctx context.Context, log logger.Logger) error {
	db := stdlib.OpenDBFromPool(a.p.Pool)
	defer db.Close()
	return Migrate(ctx, db, MigrateUp, log)
}

// Migrate runs one goose command against db
// concurrent callers are serialized by a postgres session lock held by goose
func Migrate(ctx context.Context, db *sql.DB, command string, log logger.Logger) error {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("migrate: session locker: %w", err)
	}
	p, err := goose.NewProvider(goose.DialectPostgres, db, Migrations(), goose.WithSessionLocker(locker))
	if err != nil {
		return fmt.Errorf("migrate: provider: %w", err)
	}

	switch command {
	case MigrateUp:
		res, err := p.Up(ctx)
		for _, r := range res {
			log.Info().Str("file", r.Source.Path).Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("migration applied")
		}
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		if len(res) == 0 {
			log.Debug().Msg("schema up to date")
		}
	case MigrateDown:
		r, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		if r != nil {
			log.Info().Str("file", r.Source.Path).Int64("version", r.Source.Version).Msg("migration rolled back")
		}
	case MigrateStatus:
		st, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range st {
			ev := log.Info().Str("file", s.Source.Path).Str("state", string(s.State))
			if !s.AppliedAt.IsZero() {
				ev = ev.Time("applied_at", s.AppliedAt)
			}
			ev.Msg("migration")
		}
	case MigrateVersion:
		v, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		log.Info().Int64("version", v).Msg("schema version")
	default:
		return fmt.Errorf("migrate: unknown command %q", command)
	}
	return nil
}
