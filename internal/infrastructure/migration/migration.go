package migration

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog"
)

// Execer runs a statement; *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations are idempotent and run in order on every startup.
var Migrations = []Migration{
	{
		Name: "create_cv_generations",
		SQL: `
			CREATE TABLE IF NOT EXISTS cv_generations (
				id          UUID PRIMARY KEY,
				name        TEXT NOT NULL,
				email       TEXT NOT NULL,
				file_name   TEXT NOT NULL,
				size_bytes  BIGINT NOT NULL DEFAULT 0,
				pages       INTEGER NOT NULL DEFAULT 0,
				status      TEXT NOT NULL,
				archive_key TEXT NOT NULL DEFAULT '',
				error       TEXT NOT NULL DEFAULT '',
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`,
	},
	{
		Name: "index_cv_generations_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS cv_generations_created_at_idx ON cv_generations (created_at);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, db Execer, log zerolog.Logger) error {
	log.Info().Int("count", len(Migrations)).Msg("starting database migrations")

	for _, m := range Migrations {
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			log.Error().Err(err).Str("name", m.Name).Msg("migration failed")
			return err
		}
		log.Info().Str("name", m.Name).Msg("migration completed")
	}

	log.Info().Msg("all migrations completed")
	return nil
}
