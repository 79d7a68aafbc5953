package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
)

// Plan is a user's set of candidate travel days for one month.
// (UserID, Month, Year) is its natural key; Month is 1..12.
type Plan struct {
	UserID       int64      `json:"userId"`
	UserName     string     `json:"userName,omitempty"`
	Month        time.Month `json:"month"`
	Year         int        `json:"year"`
	SelectedDays []int      `json:"selectedDays"`
}

// PlanKey is the natural key of a plan.
type PlanKey struct {
	UserID int64
	Period datecycle.YearMonth
}

func (p Plan) Key() PlanKey {
	return PlanKey{UserID: p.UserID, Period: p.Period()}
}

func (p Plan) Period() datecycle.YearMonth {
	return datecycle.YearMonth{Year: p.Year, Month: p.Month}
}

// Normalize validates the plan and returns a copy whose days are sorted
// and de-duplicated. Days must fall inside the targeted month.
func (p Plan) Normalize() (Plan, error) {
	if p.UserID <= 0 {
		return Plan{}, fmt.Errorf("%w: plan without user", common.ErrValidation)
	}
	period := p.Period()
	if err := period.Validate(); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	last := period.DaysIn()
	days := make([]int, 0, len(p.SelectedDays))
	for _, d := range p.SelectedDays {
		if d < 1 || d > last {
			return Plan{}, fmt.Errorf("%w: day %d not in %s", common.ErrValidation, d, period)
		}
		days = append(days, d)
	}
	slices.Sort(days)
	p.SelectedDays = slices.Compact(days)
	return p, nil
}

// Has reports whether day is selected.
func (p Plan) Has(day int) bool {
	return slices.Contains(p.SelectedDays, day)
}

// Toggle adds day if absent and removes it otherwise, keeping the days sorted.
func (p Plan) Toggle(day int) Plan {
	days := slices.Clone(p.SelectedDays)
	if i := slices.Index(days, day); i >= 0 {
		days = slices.Delete(days, i, i+1)
	} else {
		days = append(days, day)
		slices.Sort(days)
	}
	p.SelectedDays = days
	return p
}
