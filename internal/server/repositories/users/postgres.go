// Package users stores group members and their PIN hashes in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/dbx"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, COALESCE(email, ''), role, send_email`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, extra ...any) (models.User, error) {
	var u models.User
	var role int16
	dest := append([]any{&u.ID, &u.Name, &u.Email, &role, &u.SendEmail}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*Record, error) {
	rec := &Record{}
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg), &rec.PinHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.User = u
	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Record, error) {
	query := `SELECT ` + userColumns + `, pin_hash FROM users
		 WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// FindByIdentifier matches the email case-insensitively or the exact
// display name. When both match different users the lowest id wins.
func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*Record, error) {
	query := `SELECT ` + userColumns + `, pin_hash FROM users
		 WHERE LOWER(email) = LOWER($1) OR name = $1
		 ORDER BY id LIMIT 1`
	return r.getOne(ctx, query, identifier)
}

func (r *PostgresRepository) Create(ctx context.Context, data models.UserData, pinHash string) (models.User, error) {
	query := `INSERT INTO users (name, email, role, send_email, pin_hash)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		 RETURNING id`

	u := models.User{Name: data.Name, Email: data.Email, Role: data.Role, SendEmail: data.SendEmail}
	err := r.db.QueryRowContext(ctx, query,
		data.Name, data.Email, int16(data.Role), data.SendEmail, pinHash).Scan(&u.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s already in use", common.ErrConflict, data.Email)
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, data models.UserData) (models.User, error) {
	query := `UPDATE users SET name = $2, email = NULLIF($3, ''), role = $4, send_email = $5
		 WHERE id = $1
		 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		id, data.Name, data.Email, int16(data.Role), data.SendEmail))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, common.ErrorNotFound
		}
		if dbx.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s already in use", common.ErrConflict, data.Email)
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) UpdatePin(ctx context.Context, id int64, pinHash string) error {
	query := `UPDATE users SET pin_hash = $2 WHERE id = $1`
	return execOne(ctx, r.db, query, id, pinHash)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`
	return execOne(ctx, r.db, query, id)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db dbx.DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
