// Package datecycle is the single place that answers "which month is open
// for planning and allocation". Months are always 1..12 (time.Month); no
// zero-based month index exists anywhere in tripshare.
package datecycle

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by allocations and holidays.
const DateLayout = "2006-01-02"

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Of returns the month containing t. Only the calendar fields of t are read.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// New builds a YearMonth and rejects months outside 1..12.
func New(year int, month time.Month) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: month}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

// ActiveMonth returns the month open for planning/allocation on day today.
//
// With allocateForCurrentMonth set it is today's month; otherwise it is the
// following month, rolling December over into January of the next year.
func ActiveMonth(today time.Time, allocateForCurrentMonth bool) YearMonth {
	ym := Of(today)
	if allocateForCurrentMonth {
		return ym
	}
	return ym.Next()
}

// Validate reports whether the month is in 1..12 and the year is positive.
func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("month %d out of range 1..12", int(ym.Month))
	}
	if ym.Year <= 0 {
		return fmt.Errorf("year %d out of range", ym.Year)
	}
	return nil
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Add moves by n months (n may be negative).
func (ym YearMonth) Add(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month) - 1 + n
	return YearMonth{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date formats day of this month as YYYY-MM-DD.
func (ym YearMonth) Date(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", ym.Year, int(ym.Month), day)
}

// Contains reports whether the YYYY-MM-DD date falls in this month.
// Unparseable dates are never contained.
func (ym YearMonth) Contains(date string) bool {
	got, _, err := ParseDate(date)
	if err != nil {
		return false
	}
	return got == ym
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// String renders the month as "2006-01".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Title renders the month for people, e.g. "June 2025".
func (ym YearMonth) Title() string {
	return fmt.Sprintf("%s %d", ym.Month, ym.Year)
}

// ParseDate splits a YYYY-MM-DD date into its month and day.
func ParseDate(date string) (YearMonth, int, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return YearMonth{}, 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return Of(t), t.Day(), nil
}

// NormalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date part. Holidays arrive in both shapes.
func NormalizeDate(s string) (string, error) {
	if _, _, err := ParseDate(s); err == nil {
		return s, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return t.Format(DateLayout), nil
}
