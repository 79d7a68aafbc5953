// Package planupdates records which users changed a plan after the last
// allocation run. Every mark carries a version from a monotonically
// increasing counter so a generation can clear exactly the marks it saw.
package planupdates

import "context"

type Store interface {
	// Mark records that userID changed a plan and returns the version
	// assigned to the mark. A later mark for the same user replaces it.
	Mark(ctx context.Context, userID int64, name string) (int64, error)
	// CurrentVersion is the version a generation captures before reading
	// plans. Every mark at or below it is already visible to readers.
	CurrentVersion(ctx context.Context) (int64, error)
	// List returns user names ordered by mark version.
	List(ctx context.Context) ([]string, error)
	// ClearUpTo drops every mark whose version is <= version.
	ClearUpTo(ctx context.Context, version int64) error
}
