// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/server/migrations"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/allocations"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/holidays"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/plans"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/planupdates"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/settings"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Plans(db dbx.DBTX) plans.Repository {
	return plans.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Allocations(db dbx.DBTX) allocations.Repository {
	return allocations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Holidays(db dbx.DBTX) holidays.Repository {
	return holidays.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PlanUpdates(db dbx.DBTX) planupdates.Store {
	return planupdates.NewPostgresStore(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
