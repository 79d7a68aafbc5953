package models

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
)

// Traveler is a user taking part in an allocated trip.
type Traveler struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Allocation is the finalized assignment for one calendar date.
type Allocation struct {
	Date       string     `json:"date"`
	BookerID   int64      `json:"bookerId"`
	BookerName string     `json:"bookerName"`
	Travelers  []Traveler `json:"travelers"`
	TripType   string     `json:"tripType,omitempty"`
}

// Validate checks the output contract of the allocation generator.
func (a Allocation) Validate() error {
	if _, _, err := datecycle.ParseDate(a.Date); err != nil {
		return err
	}
	if len(a.Travelers) == 0 {
		return fmt.Errorf("allocation %s has no travelers", a.Date)
	}
	if a.BookerID <= 0 {
		return fmt.Errorf("allocation %s has no booker", a.Date)
	}
	return nil
}

// Period returns the month the allocation belongs to. Malformed dates yield
// the zero YearMonth.
func (a Allocation) Period() datecycle.YearMonth {
	ym, _, err := datecycle.ParseDate(a.Date)
	if err != nil {
		return datecycle.YearMonth{}
	}
	return ym
}

// HasTraveler reports whether the user travels on this date.
func (a Allocation) HasTraveler(userID int64) bool {
	return slices.ContainsFunc(a.Travelers, func(t Traveler) bool { return t.ID == userID })
}

// Involves reports whether the user books or travels on this date.
func (a Allocation) Involves(userID int64) bool {
	return a.BookerID == userID || a.HasTraveler(userID)
}

// Companions returns the travelers other than userID.
func (a Allocation) Companions(userID int64) []Traveler {
	out := make([]Traveler, 0, len(a.Travelers))
	for _, t := range a.Travelers {
		if t.ID != userID {
			out = append(out, t)
		}
	}
	return out
}

// TravelerNames lists traveler names in allocation order.
func (a Allocation) TravelerNames() []string {
	names := make([]string, 0, len(a.Travelers))
	for _, t := range a.Travelers {
		names = append(names, t.Name)
	}
	return names
}
