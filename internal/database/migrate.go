package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/database/migrations"
)

const versionTable = "schema_version"

// Migrate applies the embedded migrations that have not run yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log logrus.FieldLogger) (applied int, err error) {
	return ApplyMigrations(ctx, pool, migrations.FS, log)
}

// ApplyMigrations brings the schema up to the newest numbered migration in
// migrationFS. tern holds an advisory lock for the whole run, so concurrent
// migrators wait for each other. It returns how many migrations ran.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, migrationFS fs.FS, log logrus.FieldLogger) (int, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration connection: %w", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}
	if err := m.LoadMigrations(migrationFS); err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	applied := 0
	m.OnStart = func(sequence int32, name, direction, _ string) {
		applied++
		log.WithFields(logrus.Fields{
			"migration": name,
			"sequence":  sequence,
			"direction": direction,
		}).Info("applying migration")
	}

	if err := m.Migrate(ctx); err != nil {
		return applied, fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}
