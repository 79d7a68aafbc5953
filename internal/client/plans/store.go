// Package plans holds the session-scoped collection of submitted plans.
package plans

import (
	"strconv"
	"sync"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Coverage answers whether an allocation batch already covers a month.
type Coverage interface {
	Covers(period datecycle.YearMonth) bool
}

// DirtyMarker receives the name of a user whose plan changed after allocation.
type DirtyMarker interface {
	MarkDirty(name string)
}

// Store keeps plans in arrival order. It does not forbid two plans with the
// same key (a fetched batch may contain them); lookups prefer the latest.
type Store struct {
	mu       sync.RWMutex
	plans    []models.Plan
	coverage Coverage
	marker   DirtyMarker
}

// NewStore builds a Store. coverage and marker may be nil, in which case
// upserts never mark anyone stale.
func NewStore(coverage Coverage, marker DirtyMarker) *Store {
	return &Store{coverage: coverage, marker: marker}
}

// Upsert inserts plan or fully replaces the plan with the same key. The
// replaced plan keeps its arrival position.
//
// Replacing an existing plan for a month that an allocation batch already
// covers marks the owner stale; marked reports whether that happened.
func (s *Store) Upsert(plan models.Plan) (marked bool, err error) {
	plan, err = plan.Normalize()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := s.lastIndex(plan.Key())
	if idx >= 0 {
		s.plans[idx] = plan
	} else {
		s.plans = append(s.plans, plan)
	}
	s.mu.Unlock()

	if idx < 0 || s.coverage == nil || s.marker == nil {
		return false, nil
	}
	if !s.coverage.Covers(plan.Period()) {
		return false, nil
	}
	s.marker.MarkDirty(ownerName(plan))
	return true, nil
}

// FindFor returns the plan for (userID, month, year).
func (s *Store) FindFor(userID int64, period datecycle.YearMonth) (models.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.lastIndex(models.PlanKey{UserID: userID, Period: period})
	if idx < 0 {
		return models.Plan{}, false
	}
	return clonePlan(s.plans[idx]), true
}

// AllSubmittedFor lists the plans of a month in arrival order.
func (s *Store) AllSubmittedFor(period datecycle.YearMonth) []models.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Plan, 0)
	for _, p := range s.plans {
		if p.Period() == period {
			out = append(out, clonePlan(p))
		}
	}
	return out
}

// ReplaceAll loads an authoritative batch. Its order becomes the arrival
// order. Staleness is never touched by a load.
func (s *Store) ReplaceAll(plans []models.Plan) {
	loaded := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		loaded = append(loaded, clonePlan(p))
	}
	s.mu.Lock()
	s.plans = loaded
	s.mu.Unlock()
}

// Len returns the number of stored plans.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}

func (s *Store) lastIndex(key models.PlanKey) int {
	for i := len(s.plans) - 1; i >= 0; i-- {
		if s.plans[i].Key() == key {
			return i
		}
	}
	return -1
}

func ownerName(p models.Plan) string {
	if p.UserName != "" {
		return p.UserName
	}
	return "user #" + strconv.FormatInt(p.UserID, 10)
}

func clonePlan(p models.Plan) models.Plan {
	p.SelectedDays = append([]int(nil), p.SelectedDays...)
	return p
}
