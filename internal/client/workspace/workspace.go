// Package workspace ties the client core together: it owns the session
// machine and the plan, allocation and staleness stores, loads them from
// the backend and runs every user-facing flow against them.
//
// Reads are fanned out with errgroup and applied only once every member of
// a batch has resolved. Writes are never applied optimistically: local
// state changes after the backend confirms, and a rejected write triggers
// an authoritative re-fetch.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/tripshare/internal/client/allocations"
	"github.com/dmitrijs2005/tripshare/internal/client/client"
	"github.com/dmitrijs2005/tripshare/internal/client/dashboard"
	"github.com/dmitrijs2005/tripshare/internal/client/plans"
	"github.com/dmitrijs2005/tripshare/internal/client/session"
	"github.com/dmitrijs2005/tripshare/internal/client/staleness"
	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

var (
	ErrNotInitialized = errors.New("workspace not initialized")
	// ErrStaleLoad reports a dashboard batch that resolved after its session
	// ended. Its results were discarded.
	ErrStaleLoad = errors.New("load discarded: session changed")
)

type Workspace struct {
	api     client.Client
	log     logging.Logger
	now     func() time.Time
	session *session.Machine

	plans  *plans.Store
	allocs *allocations.Store
	stale  *staleness.Tracker

	mu          sync.RWMutex
	settings    models.SystemSettings
	initialized bool
	users       []models.User
	holidays    []string
	loaded      datecycle.YearMonth
	view        dashboard.View
	loadErr     error

	// beforeApply runs between a finished fetch and the apply step.
	beforeApply func()
}

// New builds a workspace over api. maxPinAttempts <= 0 selects the session
// default.
func New(api client.Client, maxPinAttempts int, log logging.Logger) *Workspace {
	if log == nil {
		log = logging.Nop()
	}
	w := &Workspace{
		api:   api,
		log:   log.With("module", "workspace"),
		now:   time.Now,
		stale: staleness.NewTracker(),
	}
	w.allocs = allocations.NewStore()
	w.plans = plans.NewStore(w.allocs, w.stale)
	w.session = session.New(api, maxPinAttempts, log)
	w.session.OnAuthenticated(w.onAuthenticated)
	return w
}

// Init performs the initial load: users and settings, fetched together.
// Any failure is fatal and leaves the workspace uninitialized.
func (w *Workspace) Init(ctx context.Context) error {
	var (
		users    []models.User
		settings models.SystemSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = w.api.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = w.api.GetSettings(gctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		w.log.Error(ctx, "initial load failed", "error", err)
		return err
	}

	w.mu.Lock()
	w.users = users
	w.settings = settings
	w.initialized = true
	w.mu.Unlock()

	w.session.SetMode(session.ModeFor(settings))
	w.log.Debug(ctx, "initial load complete", "users", len(users))
	return nil
}

func (w *Workspace) Session() session.Snapshot {
	return w.session.Snapshot()
}

// CurrentUser returns the authenticated user.
func (w *Workspace) CurrentUser() (models.User, bool) {
	return w.session.User()
}

func (w *Workspace) Settings() models.SystemSettings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

func (w *Workspace) Users() []models.User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.users)
}

func (w *Workspace) Holidays() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.holidays)
}

// ActivePeriod is the month open for planning and allocation. It re-reads
// the current settings on every call.
func (w *Workspace) ActivePeriod() datecycle.YearMonth {
	return datecycle.ActiveMonth(w.now(), w.Settings().AllocateForCurrentMonth)
}

// StaleUsers lists the users whose plans changed after the last generation.
func (w *Workspace) StaleUsers() []string {
	return w.stale.Snapshot()
}

// ShowStaleBanner reports whether the regeneration warning is shown.
func (w *Workspace) ShowStaleBanner() bool {
	return w.stale.ShowBanner()
}

// View returns the active dashboard view.
func (w *Workspace) View() (dashboard.View, error) {
	user, ok := w.session.User()
	if !ok {
		return "", client.ErrNoSession
	}
	w.mu.RLock()
	v := w.view
	w.mu.RUnlock()
	return dashboard.Route(user.Role, v)
}

// SelectView switches the dashboard to v if the current role owns it.
func (w *Workspace) SelectView(v dashboard.View) error {
	user, ok := w.session.User()
	if !ok {
		return client.ErrNoSession
	}
	routed, err := dashboard.Route(user.Role, v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.view = routed
	w.mu.Unlock()
	return nil
}

// Refresh reloads the dashboard batch for the current session.
func (w *Workspace) Refresh(ctx context.Context) error {
	if _, ok := w.session.User(); !ok {
		return client.ErrNoSession
	}
	return w.loadDashboard(ctx, w.session.Epoch())
}

func (w *Workspace) onAuthenticated(ctx context.Context, user models.User, epoch uint64) {
	w.mu.Lock()
	w.view = ""
	w.mu.Unlock()

	err := w.loadDashboard(ctx, epoch)

	w.mu.Lock()
	w.loadErr = err
	w.mu.Unlock()
}

func (w *Workspace) takeLoadErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.loadErr
	w.loadErr = nil
	return err
}

// loadDashboard fetches plans, allocations, holidays and the stale list
// for the active month. Settings must be known first; the batch is applied
// only if every fetch succeeded and epoch is still the live session.
func (w *Workspace) loadDashboard(ctx context.Context, epoch uint64) error {
	w.mu.RLock()
	ready := w.initialized
	w.mu.RUnlock()
	if !ready {
		if err := w.refreshSettings(ctx); err != nil {
			return err
		}
	}

	period := w.ActivePeriod()

	var (
		planBatch  []models.Plan
		allocBatch []models.Allocation
		holidays   []string
		staleNames []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		planBatch, err = w.api.ListPlans(gctx, period)
		return wrap("load plans", err)
	})
	g.Go(func() error {
		var err error
		allocBatch, err = w.api.ListAllocations(gctx, period)
		return wrap("load allocations", err)
	})
	g.Go(func() error {
		var err error
		holidays, err = w.api.ListHolidays(gctx)
		return wrap("load holidays", err)
	})
	g.Go(func() error {
		var err error
		staleNames, err = w.api.ListStaleUsers(gctx)
		return wrap("load stale users", err)
	})
	if err := g.Wait(); err != nil {
		w.log.Warn(ctx, "dashboard load failed", "period", period.String(), "error", err)
		return err
	}

	if w.beforeApply != nil {
		w.beforeApply()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// Logout bumps the epoch under w.mu, so the check and the apply are one step.
	if !w.session.IsCurrent(epoch) {
		w.log.Debug(ctx, "discarding dashboard batch", "epoch", epoch)
		return ErrStaleLoad
	}
	// allocations first: plan coverage checks read them
	w.allocs.ReplaceAll(allocBatch)
	w.plans.ReplaceAll(planBatch)
	w.stale.Replace(staleNames)
	w.holidays = holidays
	w.loaded = period
	return nil
}

func (w *Workspace) refreshSettings(ctx context.Context) error {
	settings, err := w.api.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	w.mu.Lock()
	w.settings = settings
	w.initialized = true
	w.mu.Unlock()
	w.session.SetMode(session.ModeFor(settings))
	return nil
}

func (w *Workspace) refreshUsers(ctx context.Context) error {
	users, err := w.api.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	w.mu.Lock()
	w.users = users
	w.mu.Unlock()
	return nil
}

func (w *Workspace) refreshPlans(ctx context.Context, period datecycle.YearMonth) error {
	batch, err := w.api.ListPlans(ctx, period)
	if err != nil {
		return fmt.Errorf("load plans: %w", err)
	}
	w.plans.ReplaceAll(batch)
	return nil
}

func (w *Workspace) refreshHolidays(ctx context.Context) error {
	dates, err := w.api.ListHolidays(ctx)
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	w.mu.Lock()
	w.holidays = dates
	w.mu.Unlock()
	return nil
}

// actor returns the authenticated user every mutation is issued for.
func (w *Workspace) actor() (models.User, error) {
	user, ok := w.session.User()
	if !ok {
		return models.User{}, client.ErrNoSession
	}
	return user, nil
}

func (w *Workspace) requireRole(role models.Role) (models.User, error) {
	user, err := w.actor()
	if err != nil {
		return models.User{}, err
	}
	if user.Role != role {
		return models.User{}, fmt.Errorf("%w: requires %s", common.ErrorForbidden, role)
	}
	return user, nil
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
