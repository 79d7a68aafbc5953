// Package clienttest provides an in-memory client.Client for tests.
package clienttest

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tripshare/internal/client/client"
	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// Fake is an in-memory backend. Every method records its call; SetErr
// makes a method fail.
type Fake struct {
	mu sync.Mutex

	Users    []models.User
	Pins     map[int64]string
	Settings models.SystemSettings
	Plans    []models.Plan
	Allocs   []models.Allocation
	Holidays []string
	Stale    []string

	// Generated is installed as the allocation batch by GenerateAllocations;
	// StaleAfterGenerate replaces the stale list at the same time.
	Generated          []models.Allocation
	StaleAfterGenerate []string

	errs  map[string]error
	calls map[string]int

	// BeforeListAllocations runs inside ListAllocations before it returns.
	BeforeListAllocations func()
}

var _ client.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Pins:     map[int64]string{},
		Settings: models.DefaultSettings(),
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *Fake) AddUser(u models.User, pin string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Users = append(f.Users, u)
	f.Pins[u.ID] = pin
}

func (f *Fake) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *Fake) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *Fake) SetErr(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *Fake) Close() error { return nil }

func (f *Fake) Ping(context.Context) error { return f.record("Ping") }

func (f *Fake) Login(_ context.Context, identifier, pin string) (models.User, error) {
	if err := f.record("Login"); err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if strings.EqualFold(u.Email, identifier) || u.Name == identifier {
			if f.Pins[u.ID] == pin {
				return u, nil
			}
		}
	}
	return models.User{}, common.ErrAuthentication
}

func (f *Fake) Logout() { _ = f.record("Logout") }

func (f *Fake) ListUsers(context.Context) ([]models.User, error) {
	if err := f.record("ListUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.Users...), nil
}

func (f *Fake) CreateUser(_ context.Context, data models.UserData, pin string, actorID int64) (models.User, error) {
	if err := f.record("CreateUser"); err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := models.User{ID: int64(len(f.Users) + 100), Name: data.Name, Email: data.Email, Role: data.Role, SendEmail: data.SendEmail}
	if pin == "" {
		pin = common.DefaultPin
	}
	f.Users = append(f.Users, u)
	f.Pins[u.ID] = pin
	return u, nil
}

func (f *Fake) UpdateUser(_ context.Context, id int64, data models.UserData, actorID int64, newPin, currentPin string) (models.User, error) {
	if err := f.record("UpdateUser"); err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if newPin != "" && id == actorID && f.Pins[id] != currentPin {
		return models.User{}, common.ErrConflict
	}
	for i, u := range f.Users {
		if u.ID == id {
			u.Name, u.Email, u.Role, u.SendEmail = data.Name, data.Email, data.Role, data.SendEmail
			f.Users[i] = u
			if newPin != "" {
				f.Pins[id] = newPin
			}
			return u, nil
		}
	}
	return models.User{}, common.ErrorNotFound
}

func (f *Fake) DeleteUser(_ context.Context, id, actorID int64) error {
	if err := f.record("DeleteUser"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.Users {
		if u.ID == id {
			f.Users = append(f.Users[:i], f.Users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *Fake) ListPlans(_ context.Context, period datecycle.YearMonth) ([]models.Plan, error) {
	if err := f.record("ListPlans"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Plan, 0)
	for _, p := range f.Plans {
		if p.Period() == period {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Fake) SubmitPlan(_ context.Context, plan models.Plan) (models.Plan, error) {
	if err := f.record("SubmitPlan"); err != nil {
		return models.Plan{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.Plans {
		if p.Key() == plan.Key() {
			f.Plans[i] = plan
			if f.coversLocked(plan.Period()) {
				f.Stale = append(f.Stale, plan.UserName)
			}
			return plan, nil
		}
	}
	f.Plans = append(f.Plans, plan)
	return plan, nil
}

func (f *Fake) coversLocked(period datecycle.YearMonth) bool {
	for _, a := range f.Allocs {
		if period.Contains(a.Date) {
			return true
		}
	}
	return false
}

func (f *Fake) ListAllocations(_ context.Context, period datecycle.YearMonth) ([]models.Allocation, error) {
	err := f.record("ListAllocations")
	f.mu.Lock()
	hook := f.BeforeListAllocations
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Allocation, 0)
	for _, a := range f.Allocs {
		if period.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *Fake) GenerateAllocations(_ context.Context, actorID int64, period datecycle.YearMonth) ([]models.Allocation, error) {
	if err := f.record("GenerateAllocations"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Allocs = append([]models.Allocation(nil), f.Generated...)
	f.Stale = append([]string(nil), f.StaleAfterGenerate...)
	return append([]models.Allocation(nil), f.Generated...), nil
}

func (f *Fake) ListHolidays(context.Context) ([]string, error) {
	if err := f.record("ListHolidays"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Holidays...), nil
}

func (f *Fake) UpdateHolidays(_ context.Context, dates []string, actorID int64) ([]string, error) {
	if err := f.record("UpdateHolidays"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Holidays = append([]string(nil), dates...)
	return append([]string(nil), dates...), nil
}

func (f *Fake) GetSettings(context.Context) (models.SystemSettings, error) {
	if err := f.record("GetSettings"); err != nil {
		return models.SystemSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Settings, nil
}

func (f *Fake) UpdateSettings(_ context.Context, s models.SystemSettings, actorID int64) (models.SystemSettings, error) {
	if err := f.record("UpdateSettings"); err != nil {
		return models.SystemSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Settings = s
	return s, nil
}

func (f *Fake) ListStaleUsers(context.Context) ([]string, error) {
	if err := f.record("ListStaleUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Stale...), nil
}
