// Package allocator turns a month of travel plans into trip allocations.
//
// Every non-holiday day selected by at least one user becomes a trip. The
// booker of a trip is the traveler with the fewest bookings so far in the
// month, ties broken by fewest trips so far and then by lowest user id, so
// equal inputs always produce equal batches.
package allocator

import (
	"slices"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Input is everything a run needs. Plans outside Period are ignored.
type Input struct {
	Period   datecycle.YearMonth
	Plans    []models.Plan
	Holidays []string
	// Labels are assigned to trips alternately, starting with Labels[0].
	Labels [2]string
}

type tally struct {
	bookings int
	trips    int
}

// Allocate returns one allocation per trip date, ordered by date.
func Allocate(in Input) []models.Allocation {
	names := make(map[int64]string)
	var plans []models.Plan
	for _, p := range in.Plans {
		if p.Period() != in.Period {
			continue
		}
		plans = append(plans, p)
		names[p.UserID] = p.UserName
	}
	slices.SortFunc(plans, func(a, b models.Plan) int {
		switch {
		case a.UserID < b.UserID:
			return -1
		case a.UserID > b.UserID:
			return 1
		}
		return 0
	})

	holidays := make(map[string]struct{}, len(in.Holidays))
	for _, h := range in.Holidays {
		holidays[h] = struct{}{}
	}

	counts := make(map[int64]*tally)
	out := make([]models.Allocation, 0)

	for day := 1; day <= in.Period.DaysIn(); day++ {
		date := in.Period.Date(day)
		if _, off := holidays[date]; off {
			continue
		}

		var travelers []models.Traveler
		for _, p := range plans {
			if p.Has(day) && !slices.ContainsFunc(travelers, func(t models.Traveler) bool { return t.ID == p.UserID }) {
				travelers = append(travelers, models.Traveler{ID: p.UserID, Name: p.UserName})
			}
		}
		if len(travelers) == 0 {
			continue
		}

		booker := pickBooker(travelers, counts)
		counts[booker].bookings++
		for _, t := range travelers {
			counts[t.ID].trips++
		}

		out = append(out, models.Allocation{
			Date:       date,
			BookerID:   booker,
			BookerName: names[booker],
			Travelers:  travelers,
			TripType:   in.Labels[len(out)%2],
		})
	}
	return out
}

// pickBooker expects travelers sorted by id.
func pickBooker(travelers []models.Traveler, counts map[int64]*tally) int64 {
	var best int64
	var bestTally *tally
	for _, t := range travelers {
		c, ok := counts[t.ID]
		if !ok {
			c = &tally{}
			counts[t.ID] = c
		}
		if bestTally == nil ||
			c.bookings < bestTally.bookings ||
			(c.bookings == bestTally.bookings && c.trips < bestTally.trips) {
			best, bestTally = t.ID, c
		}
	}
	return best
}
