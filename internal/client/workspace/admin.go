package workspace

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Generate asks the backend for a new allocation batch for the active
// month. The staleness version is captured before the request; only marks
// made up to that point are cleared once the batch is applied, and the
// stale list is re-read strictly after the generation response.
func (w *Workspace) Generate(ctx context.Context) ([]models.Allocation, error) {
	user, err := w.requireRole(models.RoleAllocationAdmin)
	if err != nil {
		return nil, err
	}
	period := w.ActivePeriod()

	captured := w.stale.Capture()
	batch, err := w.api.GenerateAllocations(ctx, user.ID, period)
	if err != nil {
		w.log.Warn(ctx, "generation failed", "period", period.String(), "error", err)
		return nil, err
	}

	w.allocs.ReplaceAll(batch)
	cleared := w.stale.ClearBefore(captured)
	w.log.Info(ctx, "allocations generated", "period", period.String(), "count", len(batch), "cleared", len(cleared))

	names, err := w.api.ListStaleUsers(ctx)
	if err != nil {
		return batch, fmt.Errorf("reload stale users: %w", err)
	}
	w.stale.Replace(names)
	return batch, nil
}

// SetHolidays replaces the holiday calendar. Dates are normalized to
// YYYY-MM-DD, deduplicated and sorted before the call.
func (w *Workspace) SetHolidays(ctx context.Context, dates []string) ([]string, error) {
	user, err := w.requireRole(models.RoleAllocationAdmin)
	if err != nil {
		return nil, err
	}
	norm, err := normalizeDates(dates)
	if err != nil {
		return nil, err
	}

	saved, err := w.api.UpdateHolidays(ctx, norm, user.ID)
	if err != nil {
		if rerr := w.refreshHolidays(ctx); rerr != nil {
			w.log.Warn(ctx, "holiday re-fetch failed", "error", rerr)
		}
		return nil, err
	}
	w.mu.Lock()
	w.holidays = saved
	w.mu.Unlock()
	return slices.Clone(saved), nil
}

// ToggleHoliday adds date to the calendar or removes it when present.
func (w *Workspace) ToggleHoliday(ctx context.Context, date string) ([]string, error) {
	d, err := datecycle.NormalizeDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	current := w.Holidays()
	if i := slices.Index(current, d); i >= 0 {
		current = slices.Delete(current, i, i+1)
	} else {
		current = append(current, d)
	}
	return w.SetHolidays(ctx, current)
}

func normalizeDates(dates []string) ([]string, error) {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		n, err := datecycle.NormalizeDate(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// UpdateSettings stores new system settings. A change of the active-month
// rule reloads the dashboard for the new month.
func (w *Workspace) UpdateSettings(ctx context.Context, settings models.SystemSettings) error {
	user, err := w.requireRole(models.RoleSystemAdmin)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	before := w.ActivePeriod()
	saved, err := w.api.UpdateSettings(ctx, settings, user.ID)
	if err != nil {
		if rerr := w.refreshSettings(ctx); rerr != nil {
			w.log.Warn(ctx, "settings re-fetch failed", "error", rerr)
		}
		return err
	}

	w.mu.Lock()
	w.settings = saved
	w.mu.Unlock()

	if w.ActivePeriod() != before {
		return w.Refresh(ctx)
	}
	return nil
}

// CreateUser adds a user. An empty pin leaves the server default.
func (w *Workspace) CreateUser(ctx context.Context, data models.UserData, pin string) (models.User, error) {
	actor, err := w.requireRole(models.RoleSystemAdmin)
	if err != nil {
		return models.User{}, err
	}
	if err := data.Validate(); err != nil {
		return models.User{}, err
	}
	if pin != "" {
		if err := common.ValidatePin(pin); err != nil {
			return models.User{}, err
		}
	}

	created, err := w.api.CreateUser(ctx, data, pin, actor.ID)
	if rerr := w.refreshUsers(ctx); rerr != nil {
		w.log.Warn(ctx, "user re-fetch failed", "error", rerr)
	}
	if err != nil {
		return models.User{}, err
	}
	return created, nil
}

// UpdateUser edits another user's record, or the admin's own record
// without giving up the SystemAdmin role. newPin is optional.
func (w *Workspace) UpdateUser(ctx context.Context, id int64, data models.UserData, newPin string) (models.User, error) {
	actor, err := w.requireRole(models.RoleSystemAdmin)
	if err != nil {
		return models.User{}, err
	}
	if err := data.Validate(); err != nil {
		return models.User{}, err
	}
	if id == actor.ID && data.Role != models.RoleSystemAdmin {
		return models.User{}, common.ErrSelfDemotion
	}
	if newPin != "" {
		if err := common.ValidatePin(newPin); err != nil {
			return models.User{}, err
		}
	}

	updated, err := w.api.UpdateUser(ctx, id, data, actor.ID, newPin, "")
	if rerr := w.refreshUsers(ctx); rerr != nil {
		w.log.Warn(ctx, "user re-fetch failed", "error", rerr)
	}
	if err != nil {
		return models.User{}, err
	}
	w.session.Update(updated)
	return updated, nil
}

// DeleteUser removes a user other than the acting admin.
func (w *Workspace) DeleteUser(ctx context.Context, id int64) error {
	actor, err := w.requireRole(models.RoleSystemAdmin)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return common.ErrSelfDelete
	}

	err = w.api.DeleteUser(ctx, id, actor.ID)
	if rerr := w.refreshUsers(ctx); rerr != nil {
		w.log.Warn(ctx, "user re-fetch failed", "error", rerr)
	}
	return err
}

// ProfileUpdate carries the fields a user may change about themselves.
type ProfileUpdate struct {
	Name       string
	Email      string
	SendEmail  bool
	NewPin     string
	CurrentPin string
}

// UpdateProfile edits the current user's own record. Changing the PIN
// needs the current PIN as well; the role never changes here.
func (w *Workspace) UpdateProfile(ctx context.Context, p ProfileUpdate) (models.User, error) {
	user, err := w.actor()
	if err != nil {
		return models.User{}, err
	}
	data := models.UserData{Name: p.Name, Email: p.Email, Role: user.Role, SendEmail: p.SendEmail}
	if err := data.Validate(); err != nil {
		return models.User{}, err
	}
	if p.NewPin != "" {
		if err := common.ValidatePin(p.NewPin); err != nil {
			return models.User{}, err
		}
		if p.CurrentPin == "" {
			return models.User{}, fmt.Errorf("%w: current PIN is required", common.ErrValidation)
		}
		if err := common.ValidatePin(p.CurrentPin); err != nil {
			return models.User{}, err
		}
	}

	updated, err := w.api.UpdateUser(ctx, user.ID, data, user.ID, p.NewPin, p.CurrentPin)
	if err != nil {
		return models.User{}, err
	}
	w.session.Update(updated)
	if rerr := w.refreshUsers(ctx); rerr != nil {
		w.log.Warn(ctx, "user re-fetch failed", "error", rerr)
	}
	return updated, nil
}
