package workspace

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/tripshare/internal/models"
)

// LoginList returns the profiles offered in list-view login: users whose
// name contains search (case-insensitive), ordered by role rank and then
// by name.
func (w *Workspace) LoginList(search string, descending bool) []models.User {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]models.User, 0)
	for _, u := range w.Users() {
		if search == "" || strings.Contains(strings.ToLower(u.Name), search) {
			out = append(out, u)
		}
	}
	slices.SortStableFunc(out, func(a, b models.User) int {
		if c := cmp.Compare(a.Role.Rank(), b.Role.Rank()); c != 0 {
			return c
		}
		c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		if descending {
			return -c
		}
		return c
	})
	return out
}

// LoginWithForm authenticates with an identifier and PIN. A returned
// error may come from the dashboard load that follows a successful login;
// the session then stays authenticated.
func (w *Workspace) LoginWithForm(ctx context.Context, identifier, pin string) error {
	if err := w.session.SubmitForm(ctx, identifier, pin); err != nil {
		return err
	}
	return w.takeLoadErr()
}

// SelectProfile picks a profile from the login list by id.
func (w *Workspace) SelectProfile(userID int64) error {
	for _, u := range w.Users() {
		if u.ID == userID {
			return w.session.SelectProfile(u)
		}
	}
	return errors.New("no such profile")
}

// SubmitPin completes a list-view login.
func (w *Workspace) SubmitPin(ctx context.Context, pin string) error {
	if err := w.session.SubmitPin(ctx, pin); err != nil {
		return err
	}
	return w.takeLoadErr()
}

func (w *Workspace) CancelLogin() error {
	return w.session.Cancel()
}

// Logout ends the session and drops everything loaded for it.
func (w *Workspace) Logout() {
	w.api.Logout()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.Logout()
	w.plans.ReplaceAll(nil)
	w.allocs.ReplaceAll(nil)
	w.stale.Clear()
	w.holidays = nil
	w.view = ""
	w.loadErr = nil
}
