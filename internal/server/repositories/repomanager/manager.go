package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/allocations"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/holidays"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/plans"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/planupdates"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/settings"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Plans(db dbx.DBTX) plans.Repository
	Allocations(db dbx.DBTX) allocations.Repository
	Holidays(db dbx.DBTX) holidays.Repository
	Settings(db dbx.DBTX) settings.Repository
	PlanUpdates(db dbx.DBTX) planupdates.Store
}

// withPlanUpdates serves plan updates from a store that lives outside the
// SQL database and delegates everything else.
type withPlanUpdates struct {
	RepositoryManager
	store planupdates.Store
}

func (m *withPlanUpdates) PlanUpdates(dbx.DBTX) planupdates.Store {
	return m.store
}

// WithPlanUpdates returns base with its plan-update store replaced by store.
// Marks written through store do not join SQL transactions.
func WithPlanUpdates(base RepositoryManager, store planupdates.Store) RepositoryManager {
	return &withPlanUpdates{RepositoryManager: base, store: store}
}
