package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/repomanager"
)

type PlanService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPlanService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *PlanService {
	return &PlanService{db: db, repomanager: m, log: log.With("module", "plans")}
}

type SubmitResult struct {
	Plan        models.Plan
	MarkedStale bool
}

// Submit stores the actor's plan for one month. Replacing an existing plan
// in a month that already has allocations marks the actor as changed since
// the last generation.
func (s *PlanService) Submit(ctx context.Context, plan models.Plan, actorID int64) (*SubmitResult, error) {
	actor, err := requireActor(ctx, s.repomanager.Users(s.db), actorID, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if plan.UserID != 0 && plan.UserID != actor.ID {
		return nil, fmt.Errorf("%w: plan belongs to another user", common.ErrorForbidden)
	}
	plan.UserID = actor.ID
	plan.UserName = actor.Name

	plan, err = plan.Normalize()
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{Plan: plan}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res.MarkedStale = false
		replaced, err := s.repomanager.Plans(tx).Upsert(ctx, plan)
		if err != nil {
			return err
		}
		if !replaced {
			return nil
		}
		n, err := s.repomanager.Allocations(tx).CountByMonth(ctx, plan.Period())
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := s.repomanager.PlanUpdates(tx).Mark(ctx, actor.ID, actor.Name); err != nil {
			return err
		}
		res.MarkedStale = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "plan submitted", "user_id", actor.ID, "month", plan.Period().String(),
		"days", len(plan.SelectedDays), "marked_stale", res.MarkedStale)
	return res, nil
}

func (s *PlanService) List(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return s.repomanager.Plans(s.db).ListByMonth(ctx, period)
}
