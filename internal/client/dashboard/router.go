// Package dashboard maps an authenticated role and a sub-view selection to
// the view the client shows.
package dashboard

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tripshare/internal/models"
)

var (
	// ErrUnknownRole is a configuration error: a role outside the closed set
	// reached the router.
	ErrUnknownRole  = errors.New("unknown role")
	ErrViewNotOwned = errors.New("view not available for role")
)

type View string

const (
	TripPlanning       View = "trip-planning"
	ProfileEdit        View = "profile-edit"
	AllocationsReview  View = "allocations-review"
	HolidayCalendar    View = "holiday-calendar"
	UserManagement     View = "user-management"
	SettingsManagement View = "settings-management"
)

var table = map[models.Role][]View{
	models.RoleUser:            {TripPlanning, ProfileEdit},
	models.RoleAllocationAdmin: {AllocationsReview, HolidayCalendar},
	models.RoleSystemAdmin:     {UserManagement, SettingsManagement},
}

// Views returns the views owned by role, default first.
func Views(role models.Role) ([]View, error) {
	views, ok := table[role]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(role))
	}
	return slices.Clone(views), nil
}

// Default returns the first view of role.
func Default(role models.Role) (View, error) {
	views, err := Views(role)
	if err != nil {
		return "", err
	}
	return views[0], nil
}

// Route resolves the active view. An empty view selects the role's default.
func Route(role models.Role, view View) (View, error) {
	views, err := Views(role)
	if err != nil {
		return "", err
	}
	if view == "" {
		return views[0], nil
	}
	if !slices.Contains(views, view) {
		return "", fmt.Errorf("%w: %s for %s", ErrViewNotOwned, view, role)
	}
	return view, nil
}

// MustRoute is Route for callers that treat an unknown role as fatal.
// It panics on ErrUnknownRole and falls back to the default view when the
// requested view is not owned by role.
func MustRoute(role models.Role, view View) View {
	v, err := Route(role, view)
	if errors.Is(err, ErrUnknownRole) {
		panic(err)
	}
	if err != nil {
		return table[role][0]
	}
	return v
}

// ParseView accepts the view names used in commands.
func ParseView(s string) (View, error) {
	for _, views := range table {
		for _, v := range views {
			if string(v) == s {
				return v, nil
			}
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Title is the heading shown above the view.
func (v View) Title() string {
	switch v {
	case TripPlanning:
		return "Trip planning"
	case ProfileEdit:
		return "Profile"
	case AllocationsReview:
		return "Allocations"
	case HolidayCalendar:
		return "Holidays"
	case UserManagement:
		return "Users"
	case SettingsManagement:
		return "Settings"
	}
	return string(v)
}
