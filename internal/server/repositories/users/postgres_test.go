package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

var userCols = []string{"id", "name", "email", "role", "send_email"}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows(userCols).
		AddRow(int64(1), "Alice", "alice@example.com", int64(1), true).
		AddRow(int64(2), "Root", "", int64(3), false)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name,\s*COALESCE\(email,\s*''\),\s*role,\s*send_email\s+FROM\s+users\s+ORDER\s+BY\s+id$`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser, SendEmail: true},
		{ID: 2, Name: "Root", Role: models.RoleSystemAdmin},
	}, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .* FROM users`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	require.ErrorContains(t, err, "db error: db down")
}

func TestFindByIdentifier(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)WHERE\s+LOWER\(email\)\s*=\s*LOWER\(\$1\)\s+OR\s+name\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+1$`
	rows := sqlmock.NewRows(append(userCols, "pin_hash")).
		AddRow(int64(1), "Alice", "alice@example.com", int64(1), false, "$2a$hash")
	mock.ExpectQuery(q).WithArgs("ALICE@example.com").WillReturnRows(rows)

	got, err := repo.FindByIdentifier(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "$2a$hash", got.PinHash)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestFindByIdentifier_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM users`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIdentifier(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).WithArgs(int64(5)).WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), 5)
	require.ErrorContains(t, err, "db error: db err")
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+users\s*\(name,\s*email,\s*role,\s*send_email,\s*pin_hash\)\s*VALUES\s*\(\$1,\s*NULLIF\(\$2,\s*''\),\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("Zed", "", 2, false, "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	got, err := repo.Create(context.Background(), models.UserData{Name: "Zed", Role: models.RoleAllocationAdmin}, "hash")
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: 42, Name: "Zed", Role: models.RoleAllocationAdmin}, got)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_idx"})

	_, err := repo.Create(context.Background(),
		models.UserData{Name: "Ann", Email: "a@example.com", Role: models.RoleUser}, "hash")
	require.ErrorIs(t, err, common.ErrConflict)
	require.ErrorContains(t, err, "a@example.com")
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)^UPDATE\s+users\s+SET`).
		WithArgs(int64(9), "Bob", "bob@example.com", 1, true).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 9, models.UserData{Name: "Bob", Email: "bob@example.com", Role: models.RoleUser, SendEmail: true})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdatePinAndDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+pin_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(3), "h").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs(int64(4)).WillReturnError(errors.New("fk"))

	require.NoError(t, repo.UpdatePin(context.Background(), 3, "h"))
	require.ErrorIs(t, repo.Delete(context.Background(), 3), common.ErrorNotFound)
	require.ErrorContains(t, repo.Delete(context.Background(), 4), "db error: fk")
}

func TestCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
