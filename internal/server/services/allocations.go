package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/allocator"
	"github.com/dmitrijs2005/tripshare/internal/server/archive"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type AllocationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     archive.Archiver
	log         logging.Logger
	now         func() time.Time
}

func NewAllocationService(db *sql.DB, m repomanager.RepositoryManager, a archive.Archiver, log logging.Logger) *AllocationService {
	return &AllocationService{
		db:          db,
		repomanager: m,
		archive:     a,
		log:         log.With("module", "allocations"),
		now:         time.Now,
	}
}

// Generate builds and stores the allocation batch for period, replacing
// whatever the month held before. A zero period selects the active month.
//
// The plan-update version is captured in its own transaction before plans
// are read, so marks written while the batch is being built survive the
// clear and every mark at or below it belongs to a committed plan.
func (s *AllocationService) Generate(ctx context.Context, actorID int64, period datecycle.YearMonth) (datecycle.YearMonth, []models.Allocation, error) {
	if _, err := requireActor(ctx, s.repomanager.Users(s.db), actorID, models.RoleAllocationAdmin); err != nil {
		return period, nil, err
	}

	settings, err := s.repomanager.Settings(s.db).Get(ctx)
	if err != nil {
		return period, nil, err
	}
	if period.IsZero() {
		period = datecycle.ActiveMonth(s.now(), settings.AllocateForCurrentMonth)
	} else if err := period.Validate(); err != nil {
		return period, nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var captured int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		v, err := s.repomanager.PlanUpdates(tx).CurrentVersion(ctx)
		captured = v
		return err
	})
	if err != nil {
		return period, nil, err
	}

	plans, err := s.repomanager.Plans(s.db).ListByMonth(ctx, period)
	if err != nil {
		return period, nil, err
	}
	if len(plans) == 0 {
		return period, nil, fmt.Errorf("%w: no plans submitted for %s", common.ErrValidation, period.Title())
	}

	holidays, err := s.repomanager.Holidays(s.db).List(ctx)
	if err != nil {
		return period, nil, err
	}

	batch := allocator.Allocate(allocator.Input{
		Period:   period,
		Plans:    plans,
		Holidays: holidays,
		Labels:   settings.TripLabels(),
	})

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Allocations(tx).ReplaceMonth(ctx, period, batch); err != nil {
			return err
		}
		return s.repomanager.PlanUpdates(tx).ClearUpTo(ctx, captured)
	})
	if err != nil {
		return period, nil, err
	}

	s.log.Info(ctx, "allocations generated", "actor_id", actorID, "month", period.String(), "trips", len(batch))

	if key, err := s.archive.Archive(ctx, period, batch); err != nil {
		s.log.Warn(ctx, "schedule archive failed", "month", period.String(), "error", err)
	} else if key != "" {
		s.log.Debug(ctx, "schedule archived", "key", key)
	}

	return period, batch, nil
}

func (s *AllocationService) List(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return s.repomanager.Allocations(s.db).ListByMonth(ctx, period)
}

// StaleUsers lists users whose plans changed after the last generation.
func (s *AllocationService) StaleUsers(ctx context.Context) ([]string, error) {
	return s.repomanager.PlanUpdates(s.db).List(ctx)
}
