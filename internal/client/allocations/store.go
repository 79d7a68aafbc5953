// Package allocations holds the current allocation batch and derives each
// user's schedule and monthly cost from it.
package allocations

import (
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Store holds one allocation batch. ReplaceAll is its only mutation.
type Store struct {
	mu    sync.RWMutex
	batch []models.Allocation
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceAll discards the current batch and installs a copy of allocations.
func (s *Store) ReplaceAll(allocations []models.Allocation) {
	batch := make([]models.Allocation, 0, len(allocations))
	for _, a := range allocations {
		batch = append(batch, cloneAllocation(a))
	}
	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()
}

// All returns the batch sorted by date.
func (s *Store) All() []models.Allocation {
	return s.filter(func(models.Allocation) bool { return true })
}

// ForUser returns the allocations the user books or travels on, ascending
// by date.
func (s *Store) ForUser(userID int64) []models.Allocation {
	return s.filter(func(a models.Allocation) bool { return a.Involves(userID) })
}

// ForMonth returns the allocations dated inside period, ascending by date.
// Dates are YYYY-MM-DD with a 1-based month, the same convention as period.
func (s *Store) ForMonth(period datecycle.YearMonth) []models.Allocation {
	return s.filter(func(a models.Allocation) bool { return period.Contains(a.Date) })
}

// ForUserInMonth is ForUser ∩ ForMonth.
func (s *Store) ForUserInMonth(userID int64, period datecycle.YearMonth) []models.Allocation {
	return s.filter(func(a models.Allocation) bool {
		return a.Involves(userID) && period.Contains(a.Date)
	})
}

// Covers reports whether any allocation falls inside period.
func (s *Store) Covers(period datecycle.YearMonth) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.batch, func(a models.Allocation) bool { return period.Contains(a.Date) })
}

// TripCount counts the dates in period on which the user travels.
func (s *Store) TripCount(userID int64, period datecycle.YearMonth) int {
	n := 0
	for _, a := range s.ForUserInMonth(userID, period) {
		if a.HasTraveler(userID) {
			n++
		}
	}
	return n
}

// MonthlyExpense is the user's trip count in period times tripPrice. It is
// derived on every call and never stored.
func (s *Store) MonthlyExpense(userID int64, period datecycle.YearMonth, tripPrice decimal.Decimal) decimal.Decimal {
	return tripPrice.Mul(decimal.NewFromInt(int64(s.TripCount(userID, period))))
}

// Len returns the batch size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batch)
}

func (s *Store) filter(keep func(models.Allocation) bool) []models.Allocation {
	s.mu.RLock()
	out := make([]models.Allocation, 0)
	for _, a := range s.batch {
		if keep(a) {
			out = append(out, cloneAllocation(a))
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Allocation) int {
		return strings.Compare(a.Date, b.Date)
	})
	return out
}

func cloneAllocation(a models.Allocation) models.Allocation {
	a.Travelers = append([]models.Traveler(nil), a.Travelers...)
	return a
}
