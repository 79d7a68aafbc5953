package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/archive"
	"github.com/dmitrijs2005/tripshare/internal/server/config"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

// The interfaces below are what the transports (gRPC and REST) consume.

type Users interface {
	Login(ctx context.Context, identifier, pin string) (*LoginResult, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, data models.UserData, pin string, actorID int64) (models.User, error)
	Update(ctx context.Context, in UpdateUserInput) (models.User, error)
	Delete(ctx context.Context, id, actorID int64) error
}

type Plans interface {
	Submit(ctx context.Context, plan models.Plan, actorID int64) (*SubmitResult, error)
	List(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error)
}

type Allocations interface {
	Generate(ctx context.Context, actorID int64, period datecycle.YearMonth) (datecycle.YearMonth, []models.Allocation, error)
	List(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error)
	StaleUsers(ctx context.Context) ([]string, error)
}

type Holidays interface {
	List(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, dates []string, actorID int64) ([]string, error)
}

type Settings interface {
	Get(ctx context.Context) (models.SystemSettings, error)
	Update(ctx context.Context, s models.SystemSettings, actorID int64) (models.SystemSettings, error)
}

// Registry bundles the services a transport serves.
type Registry struct {
	Users       Users
	Plans       Plans
	Allocations Allocations
	Holidays    Holidays
	Settings    Settings
}

func NewRegistry(db *sql.DB, m repomanager.RepositoryManager, a archive.Archiver, cfg *config.Config, log logging.Logger) *Registry {
	return &Registry{
		Users:       NewUserService(db, m, cfg),
		Plans:       NewPlanService(db, m, log),
		Allocations: NewAllocationService(db, m, a, log),
		Holidays:    NewHolidayService(db, m),
		Settings:    NewSettingsService(db, m),
	}
}
