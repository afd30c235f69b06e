// Package db provides database connectivity and migration functionality for the agency backend.
// It handles establishing the pgx connection pool and applying the embedded schema migrations.
// This package centralizes database concerns, similar to how a database module (e.g., TypeORMModule)
// would be configured in Nest.js, providing a pool to the rest of the application.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	// `golang-migrate` is a popular library for database migrations in Go.
	"github.com/golang-migrate/migrate/v4"
	// Registers the "postgres" database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	// `pgxpool` is part of the `jackc/pgx` suite, providing a robust connection pool for PostgreSQL.
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DBTX is the subset of *pgxpool.Pool used by the stores.
// Accepting it instead of the concrete pool lets tests substitute pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool establishes the PostgreSQL connection pool using the provided configuration.
// Pool creation and the initial ping are each bounded by a timeout so an unreachable
// database fails startup instead of blocking it.
func NewPool(cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	// `pgxpool.ParseConfig` parses the DSN string into a `pgxpool.Config` struct.
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewConfigError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	// Verify the connection by pinging
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close() // Clean up on connection failure
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// RunMigrations applies any pending migrations embedded in the binary.
// The migrations live in db/migrations and follow golang-migrate's
// {version}_{description}.{up|down}.sql naming.
func RunMigrations(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewDatabaseError("failed to open migration source",
			oops.Code("MIGRATION_SOURCE_FAILED").Wrap(err))
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		_ = source.Close()
		return apperror.NewDatabaseError("failed to create migrator",
			oops.Code("MIGRATION_INIT_FAILED").Wrap(err))
	}
	// m.Close() returns two errors, one for source and one for database.
	defer func() {
		_, _ = m.Close()
	}()

	// `migrate.ErrNoChange` is returned if there are no new migrations to apply, which is not an actual error.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError("failed to run migrations",
			oops.Code("MIGRATION_UP_FAILED").Wrap(err))
	}

	return nil
}
