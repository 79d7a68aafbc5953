package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
	"github.com/dmitrijs2005/tripshare/internal/server/config"
	"github.com/dmitrijs2005/tripshare/internal/server/repositories/users"
)

const (
	rootID  int64 = 1
	erinID  int64 = 2
	aliceID int64 = 3
	bobID   int64 = 4
)

// seedGroup adds one user per role plus a second plain user.
func seedGroup(t *testing.T, rm *fakeRM) {
	t.Helper()
	rm.addUser(t, rootID, "Root", models.RoleSystemAdmin, "9999")
	rm.addUser(t, erinID, "Erin", models.RoleAllocationAdmin, "5555")
	rm.addUser(t, aliceID, "Alice", models.RoleUser, "1234")
	rm.addUser(t, bobID, "Bob", models.RoleUser, "2222")
}

func newUserService(db *sql.DB, rm *fakeRM) *UserService {
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	return NewUserService(db, rm, cfg)
}

func pinMatches(t *testing.T, rm *fakeRM, id int64, pin string) bool {
	t.Helper()
	ok, err := auth.CheckPin(rm.users.byID[id].PinHash, pin)
	require.NoError(t, err)
	return ok
}

func TestLogin_Success(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	res, err := s.Login(context.Background(), "ALICE@example.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, aliceID, res.User.ID)

	p, err := auth.ParseToken(res.AccessToken, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{UserID: aliceID, Role: models.RoleUser}, p)

	res, err = s.Login(context.Background(), " Bob ", "2222")
	require.NoError(t, err)
	assert.Equal(t, bobID, res.User.ID)
}

func TestLogin_Rejections(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	_, err := s.Login(context.Background(), "Alice", "0000")
	require.ErrorIs(t, err, common.ErrAuthentication)

	_, err = s.Login(context.Background(), "Nobody", "1234")
	require.ErrorIs(t, err, common.ErrAuthentication)

	_, err = s.Login(context.Background(), "Alice", "12")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Login(context.Background(), "  ", "1234")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCreate_DefaultPinAndRoleGuard(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	u, err := s.Create(context.Background(), models.UserData{Name: "  Zed ", Role: models.RoleUser}, "", rootID)
	require.NoError(t, err)
	assert.Equal(t, "Zed", u.Name)
	assert.True(t, pinMatches(t, rm, u.ID, common.DefaultPin))

	_, err = s.Create(context.Background(), models.UserData{Name: "Yan", Role: models.RoleUser}, "", erinID)
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.Create(context.Background(), models.UserData{Name: "Yan"}, "", rootID)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(context.Background(), models.UserData{Name: "Yan", Role: models.RoleUser}, "12a4", rootID)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(context.Background(), models.UserData{Name: "Yan", Role: models.RoleUser}, "", 99)
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestUpdate_SelfDemotionBlocked(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	_, err := s.Update(context.Background(), UpdateUserInput{
		ID: rootID, ActorID: rootID,
		Data: models.UserData{Name: "Root", Role: models.RoleUser},
	})
	require.ErrorIs(t, err, common.ErrSelfDemotion)
	assert.Equal(t, models.RoleSystemAdmin, rm.users.byID[rootID].Role)
}

func TestUpdate_UserCannotChangeOwnRoleOrOthers(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	_, err := s.Update(context.Background(), UpdateUserInput{
		ID: aliceID, ActorID: aliceID,
		Data: models.UserData{Name: "Alice", Role: models.RoleSystemAdmin},
	})
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.Update(context.Background(), UpdateUserInput{
		ID: bobID, ActorID: aliceID,
		Data: models.UserData{Name: "Bobby", Role: models.RoleUser},
	})
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestUpdate_OwnPinNeedsCurrentPin(t *testing.T) {
	db, mock := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)
	in := UpdateUserInput{
		ID: aliceID, ActorID: aliceID,
		Data:   models.UserData{Name: "Alice", Email: "alice@example.com", Role: models.RoleUser, SendEmail: true},
		NewPin: "4321",
	}

	_, err := s.Update(context.Background(), in)
	require.ErrorIs(t, err, common.ErrValidation)

	in.CurrentPin = "0000"
	_, err = s.Update(context.Background(), in)
	require.ErrorIs(t, err, common.ErrAuthentication)
	assert.True(t, pinMatches(t, rm, aliceID, "1234"))

	expectTx(mock)
	in.CurrentPin = "1234"
	u, err := s.Update(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, u.SendEmail)
	assert.True(t, pinMatches(t, rm, aliceID, "4321"))
}

func TestUpdate_AdminResetsPinWithoutCurrent(t *testing.T) {
	db, mock := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	expectTx(mock)
	u, err := s.Update(context.Background(), UpdateUserInput{
		ID: bobID, ActorID: rootID,
		Data:   models.UserData{Name: "Bob", Role: models.RoleAllocationAdmin},
		NewPin: "7777",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAllocationAdmin, u.Role)
	assert.True(t, pinMatches(t, rm, bobID, "7777"))
}

func TestUpdate_MissingTarget(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	_, err := s.Update(context.Background(), UpdateUserInput{
		ID: 42, ActorID: rootID, Data: models.UserData{Name: "X", Role: models.RoleUser},
	})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_RollsBackOnPinWriteError(t *testing.T) {
	db, mock := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	mock.ExpectBegin()
	mock.ExpectRollback()
	rm.users.pinErr = errors.New("disk full")

	_, err := s.Update(context.Background(), UpdateUserInput{
		ID: bobID, ActorID: rootID,
		Data:   models.UserData{Name: "Bob", Role: models.RoleUser},
		NewPin: "7777",
	})
	require.EqualError(t, err, "disk full")
}

func TestDelete(t *testing.T) {
	db, _ := newMockDB(t)
	rm := newFakeRM()
	seedGroup(t, rm)
	s := newUserService(db, rm)

	require.ErrorIs(t, s.Delete(context.Background(), rootID, rootID), common.ErrSelfDelete)
	require.ErrorIs(t, s.Delete(context.Background(), bobID, aliceID), common.ErrorForbidden)
	require.NoError(t, s.Delete(context.Background(), bobID, rootID))
	require.ErrorIs(t, s.Delete(context.Background(), bobID, rootID), common.ErrorNotFound)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestRequireActor_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := failingUsers{fakeUsers: &fakeUsers{}, err: boom}
	_, err := requireActor(context.Background(), repo, 1)
	require.ErrorIs(t, err, boom)

	_, err = requireActor(context.Background(), repo, 0)
	require.ErrorIs(t, err, common.ErrorForbidden)
}

type failingUsers struct {
	*fakeUsers
	err error
}

func (f failingUsers) Get(context.Context, int64) (*users.Record, error) { return nil, f.err }
