package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
	"github.com/dmitrijs2005/tripshare/internal/server/services"
)

const testSecret = "secret"

var (
	alice = models.User{ID: 3, Name: "Alice", Role: models.RoleUser}
	erin  = models.User{ID: 2, Name: "Erin", Role: models.RoleAllocationAdmin}
	root  = models.User{ID: 1, Name: "Root", Role: models.RoleSystemAdmin}
)

func tokenFor(u models.User) string {
	tok, err := auth.GenerateToken(auth.Principal{UserID: u.ID, Role: u.Role}, []byte(testSecret), time.Hour)
	if err != nil {
		panic(err)
	}
	return tok
}

// fakeServices records the actor each mutation received.
type fakeServices struct {
	lastActor  int64
	lastPeriod datecycle.YearMonth
	err        error
}

func (f *fakeServices) registry() *services.Registry {
	return &services.Registry{Users: f, Plans: fakePlans{f}, Allocations: fakeAllocs{f}, Holidays: fakeHolidays{f}, Settings: fakeSettings{f}}
}

func newTestServer(f *fakeServices) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), f.registry(), testSecret)
}

func (f *fakeServices) Login(_ context.Context, identifier, pin string) (*services.LoginResult, error) {
	if identifier != "Alice" || pin != "1234" {
		return nil, common.ErrAuthentication
	}
	return &services.LoginResult{User: alice, AccessToken: tokenFor(alice)}, nil
}

func (f *fakeServices) List(context.Context) ([]models.User, error) {
	return []models.User{root, erin, alice}, f.err
}

func (f *fakeServices) Create(_ context.Context, data models.UserData, _ string, actorID int64) (models.User, error) {
	f.lastActor = actorID
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: 10, Name: data.Name, Role: data.Role}, nil
}

func (f *fakeServices) Update(_ context.Context, in services.UpdateUserInput) (models.User, error) {
	f.lastActor = in.ActorID
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: in.ID, Name: in.Data.Name, Role: in.Data.Role}, nil
}

func (f *fakeServices) Delete(_ context.Context, _, actorID int64) error {
	f.lastActor = actorID
	return f.err
}

type fakePlans struct{ *fakeServices }

func (f fakePlans) Submit(_ context.Context, plan models.Plan, actorID int64) (*services.SubmitResult, error) {
	f.lastActor = actorID
	if f.err != nil {
		return nil, f.err
	}
	plan.UserID = actorID
	return &services.SubmitResult{Plan: plan, MarkedStale: true}, nil
}

func (f fakePlans) List(_ context.Context, p datecycle.YearMonth) ([]models.Plan, error) {
	f.lastPeriod = p
	if f.err != nil {
		return nil, f.err
	}
	return []models.Plan{{UserID: alice.ID, UserName: alice.Name, Year: p.Year, Month: p.Month, SelectedDays: []int{2}}}, nil
}

type fakeAllocs struct{ *fakeServices }

func (f fakeAllocs) Generate(_ context.Context, actorID int64, p datecycle.YearMonth) (datecycle.YearMonth, []models.Allocation, error) {
	f.lastActor = actorID
	if p.IsZero() {
		p = datecycle.YearMonth{Year: 2025, Month: time.July}
	}
	if f.err != nil {
		return p, nil, f.err
	}
	return p, []models.Allocation{{Date: p.Date(1), BookerID: alice.ID, BookerName: "Alice", Travelers: []models.Traveler{{ID: alice.ID, Name: "Alice"}}}}, nil
}

func (f fakeAllocs) List(_ context.Context, p datecycle.YearMonth) ([]models.Allocation, error) {
	f.lastPeriod = p
	return nil, f.err
}

func (f fakeAllocs) StaleUsers(context.Context) ([]string, error) { return []string{"Bob"}, f.err }

type fakeHolidays struct{ *fakeServices }

func (f fakeHolidays) List(context.Context) ([]string, error) { return []string{"2025-12-25"}, f.err }

func (f fakeHolidays) Replace(_ context.Context, dates []string, actorID int64) ([]string, error) {
	f.lastActor = actorID
	return dates, f.err
}

type fakeSettings struct{ *fakeServices }

func (f fakeSettings) Get(context.Context) (models.SystemSettings, error) {
	return models.DefaultSettings(), f.err
}

func (f fakeSettings) Update(_ context.Context, s models.SystemSettings, actorID int64) (models.SystemSettings, error) {
	f.lastActor = actorID
	return s, f.err
}
