package planupdates

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
)

func newPostgresWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresStore(db), mock
}

func TestPostgresMark(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+plan_updates.*nextval\('plan_update_version'\).*ON\s+CONFLICT\s+\(user_id\).*RETURNING\s+version$`).
		WithArgs(int64(3), "Carol").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(17)))

	v, err := s.Mark(context.Background(), 3, "Carol")
	require.NoError(t, err)
	assert.Equal(t, int64(17), v)
}

func TestPostgresCurrentVersion(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectExec(`^LOCK\s+TABLE\s+plan_updates\s+IN\s+SHARE\s+MODE$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT\s+COALESCE\(MAX\(version\),\s*0\)\s+FROM\s+plan_updates$`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(int64(0)))

	v, err := s.CurrentVersion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestPostgresCurrentVersion_LocksInsideCallerTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	mock.ExpectBegin()
	mock.ExpectExec(`^LOCK\s+TABLE\s+plan_updates\s+IN\s+SHARE\s+MODE$`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`^SELECT\s+COALESCE\(MAX\(version\),\s*0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(int64(12)))
	mock.ExpectCommit()

	var captured int64
	err = dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		captured, err = NewPostgresStore(tx).CurrentVersion(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), captured)
}

func TestPostgresCurrentVersion_LockError(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectExec(`^LOCK\s+TABLE`).WillReturnError(errors.New("LOCK TABLE can only be used in transaction blocks"))

	_, err := s.CurrentVersion(context.Background())
	require.ErrorContains(t, err, "db error: LOCK TABLE")
}

func TestPostgresList(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectQuery(`^SELECT\s+user_name\s+FROM\s+plan_updates\s+ORDER\s+BY\s+version$`).
		WillReturnRows(sqlmock.NewRows([]string{"user_name"}).AddRow("Bob").AddRow("Carol"))

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Carol"}, got)
}

func TestPostgresClearUpTo(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectExec(`^DELETE\s+FROM\s+plan_updates\s+WHERE\s+version\s*<=\s*\$1$`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.ClearUpTo(context.Background(), 9))
}

func TestPostgresMark_DBError(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+plan_updates`).WillReturnError(errors.New("fk"))

	_, err := s.Mark(context.Background(), 3, "Carol")
	require.ErrorContains(t, err, "db error: fk")
}
