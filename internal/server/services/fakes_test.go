package services

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/allocations"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/holidays"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/plans"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/planupdates"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/settings"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/users"
)

// --- helpers ---

// newMockDB returns a sqlmock-backed *sql.DB. Tests that reach dbx.WithTx
// declare ExpectBegin/ExpectCommit or ExpectRollback themselves.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

// expectGenerate declares the capture and the write transaction of Generate.
func expectGenerate(mock sqlmock.Sqlmock) {
	expectTx(mock)
	expectTx(mock)
}

// --- fake repository manager ---

type fakeRM struct {
	users    *fakeUsers
	plans    *fakePlans
	allocs   *fakeAllocs
	holidays *fakeHolidays
	settings *fakeSettings
	updates  *fakeUpdates
}

func newFakeRM() *fakeRM {
	return &fakeRM{
		users:    &fakeUsers{byID: map[int64]*users.Record{}},
		plans:    &fakePlans{byKey: map[models.PlanKey]models.Plan{}},
		allocs:   &fakeAllocs{byMonth: map[datecycle.YearMonth][]models.Allocation{}},
		holidays: &fakeHolidays{},
		settings: &fakeSettings{s: models.DefaultSettings()},
		updates:  &fakeUpdates{},
	}
}

func (f *fakeRM) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRM) Users(dbx.DBTX) users.Repository { return f.users }
func (f *fakeRM) Plans(dbx.DBTX) plans.Repository { return f.plans }
func (f *fakeRM) Allocations(dbx.DBTX) allocations.Repository { return f.allocs }
func (f *fakeRM) Holidays(dbx.DBTX) holidays.Repository { return f.holidays }
func (f *fakeRM) Settings(dbx.DBTX) settings.Repository { return f.settings }
func (f *fakeRM) PlanUpdates(db dbx.DBTX) planupdates.Store {
	f.updates.db = db
	return f.updates
}

// addUser stores a user with a real bcrypt hash of pin.
func (f *fakeRM) addUser(t *testing.T, id int64, name string, role models.Role, pin string) models.User {
	t.Helper()
	hash, err := auth.HashPin(pin)
	require.NoError(t, err)
	u := models.User{ID: id, Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	f.users.byID[id] = &users.Record{User: u, PinHash: hash}
	if id >= f.users.nextID {
		f.users.nextID = id + 1
	}
	return u
}

type fakeUsers struct {
	byID   map[int64]*users.Record
	nextID int64
	pinErr error
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*users.Record, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeUsers) FindByIdentifier(_ context.Context, identifier string) (*users.Record, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r := f.byID[id]
		if strings.EqualFold(r.Email, identifier) || r.Name == identifier {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) Create(_ context.Context, data models.UserData, pinHash string) (models.User, error) {
	if f.nextID == 0 {
		f.nextID = 1
	}
	u := models.User{ID: f.nextID, Name: data.Name, Email: data.Email, Role: data.Role, SendEmail: data.SendEmail}
	f.byID[u.ID] = &users.Record{User: u, PinHash: pinHash}
	f.nextID++
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, data models.UserData) (models.User, error) {
	r, ok := f.byID[id]
	if !ok {
		return models.User{}, common.ErrorNotFound
	}
	r.User = models.User{ID: id, Name: data.Name, Email: data.Email, Role: data.Role, SendEmail: data.SendEmail}
	return r.User, nil
}

func (f *fakeUsers) UpdatePin(_ context.Context, id int64, pinHash string) error {
	if f.pinErr != nil {
		return f.pinErr
	}
	r, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	r.PinHash = pinHash
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) { return len(f.byID), nil }

type fakePlans struct {
	byKey map[models.PlanKey]models.Plan
	// onList runs after ListByMonth has taken its snapshot.
	onList func()
}

func (f *fakePlans) ListByMonth(_ context.Context, period datecycle.YearMonth) ([]models.Plan, error) {
	out := make([]models.Plan, 0)
	for k, p := range f.byKey {
		if k.Period == period {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if f.onList != nil {
		f.onList()
	}
	return out, nil
}

func (f *fakePlans) Upsert(_ context.Context, p models.Plan) (bool, error) {
	_, existed := f.byKey[p.Key()]
	f.byKey[p.Key()] = p
	return existed, nil
}

type fakeAllocs struct {
	byMonth    map[datecycle.YearMonth][]models.Allocation
	replaceErr error
}

func (f *fakeAllocs) ListByMonth(_ context.Context, period datecycle.YearMonth) ([]models.Allocation, error) {
	return slices.Clone(f.byMonth[period]), nil
}

func (f *fakeAllocs) CountByMonth(_ context.Context, period datecycle.YearMonth) (int, error) {
	return len(f.byMonth[period]), nil
}

func (f *fakeAllocs) ReplaceMonth(_ context.Context, period datecycle.YearMonth, batch []models.Allocation) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.byMonth[period] = slices.Clone(batch)
	return nil
}

type fakeHolidays struct{ dates []string }

func (f *fakeHolidays) List(context.Context) ([]string, error) { return slices.Clone(f.dates), nil }
func (f *fakeHolidays) Replace(_ context.Context, dates []string) error {
	f.dates = slices.Clone(dates)
	return nil
}

type fakeSettings struct{ s models.SystemSettings }

func (f *fakeSettings) Get(context.Context) (models.SystemSettings, error) { return f.s, nil }
func (f *fakeSettings) Update(_ context.Context, s models.SystemSettings) error {
	f.s = s
	return nil
}

type mark struct {
	userID  int64
	name    string
	version int64
}

type fakeUpdates struct {
	marks   []mark
	counter int64

	db          dbx.DBTX
	captureInTx bool
}

func (f *fakeUpdates) Mark(_ context.Context, userID int64, name string) (int64, error) {
	f.counter++
	f.marks = slices.DeleteFunc(f.marks, func(m mark) bool { return m.userID == userID })
	f.marks = append(f.marks, mark{userID, name, f.counter})
	return f.counter, nil
}

func (f *fakeUpdates) CurrentVersion(context.Context) (int64, error) {
	_, f.captureInTx = f.db.(*sql.Tx)
	return f.counter, nil
}

func (f *fakeUpdates) List(context.Context) ([]string, error) {
	out := make([]string, 0, len(f.marks))
	for _, m := range f.marks {
		out = append(out, m.name)
	}
	return out, nil
}

func (f *fakeUpdates) ClearUpTo(_ context.Context, v int64) error {
	f.marks = slices.DeleteFunc(f.marks, func(m mark) bool { return m.version <= v })
	return nil
}
