package workspace

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// ScheduleEntry is one line of a user's own schedule.
type ScheduleEntry struct {
	Date       string
	TripType   string
	Booker     string
	IsBooker   bool
	Travelling bool
	Companions []string
}

// MyPlan returns the current user's plan for the active month.
func (w *Workspace) MyPlan() (models.Plan, bool) {
	user, ok := w.session.User()
	if !ok {
		return models.Plan{}, false
	}
	return w.plans.FindFor(user.ID, w.ActivePeriod())
}

// SubmitPlan sends the current user's days for the active month. The local
// store changes only after the backend accepts the plan; either way the
// month's plans are re-fetched afterwards.
func (w *Workspace) SubmitPlan(ctx context.Context, days []int) (models.Plan, error) {
	user, err := w.requireRole(models.RoleUser)
	if err != nil {
		return models.Plan{}, err
	}
	period := w.ActivePeriod()

	plan, err := models.Plan{
		UserID:       user.ID,
		UserName:     user.Name,
		Month:        period.Month,
		Year:         period.Year,
		SelectedDays: days,
	}.Normalize()
	if err != nil {
		return models.Plan{}, err
	}

	saved, err := w.api.SubmitPlan(ctx, plan)
	if err != nil {
		w.log.Warn(ctx, "plan rejected", "user_id", user.ID, "period", period.String(), "error", err)
		if rerr := w.refreshPlans(ctx, period); rerr != nil {
			w.log.Warn(ctx, "plan re-fetch failed", "error", rerr)
		}
		return models.Plan{}, err
	}
	if saved.UserName == "" {
		saved.UserName = user.Name
	}

	marked, err := w.plans.Upsert(saved)
	if err != nil {
		return models.Plan{}, fmt.Errorf("%w: %v", common.ErrConflict, err)
	}
	if marked {
		w.log.Info(ctx, "plan changed after allocation", "user", user.Name, "period", period.String())
	}
	if err := w.refreshPlans(ctx, period); err != nil {
		w.log.Warn(ctx, "plan re-fetch failed", "error", err)
	}
	return saved, nil
}

// ReviewPlans lists the plans submitted for the active month in arrival
// order.
func (w *Workspace) ReviewPlans() []models.Plan {
	return w.plans.AllSubmittedFor(w.ActivePeriod())
}

// Allocations lists the active month's allocations by date.
func (w *Workspace) Allocations() []models.Allocation {
	return w.allocs.ForMonth(w.ActivePeriod())
}

// MySchedule lists the current user's allocations in the active month.
func (w *Workspace) MySchedule() []ScheduleEntry {
	user, ok := w.session.User()
	if !ok {
		return nil
	}

	entries := make([]ScheduleEntry, 0)
	for _, a := range w.allocs.ForUserInMonth(user.ID, w.ActivePeriod()) {
		e := ScheduleEntry{
			Date:       a.Date,
			TripType:   a.TripType,
			Booker:     a.BookerName,
			IsBooker:   a.BookerID == user.ID,
			Travelling: a.HasTraveler(user.ID),
		}
		if e.IsBooker {
			e.Booker = "You"
		}
		for _, t := range a.Companions(user.ID) {
			e.Companions = append(e.Companions, t.Name)
		}
		entries = append(entries, e)
	}
	return entries
}

// MyExpense is the current user's trip cost for the active month.
func (w *Workspace) MyExpense() decimal.Decimal {
	user, ok := w.session.User()
	if !ok {
		return decimal.Zero
	}
	return w.allocs.MonthlyExpense(user.ID, w.ActivePeriod(), w.Settings().TripPrice)
}

// MyTripCount is the number of days the current user travels this month.
func (w *Workspace) MyTripCount() int {
	user, ok := w.session.User()
	if !ok {
		return 0
	}
	return w.allocs.TripCount(user.ID, w.ActivePeriod())
}
