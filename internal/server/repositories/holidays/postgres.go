// Package holidays stores the dates excluded from allocation.
package holidays

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tripshare/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]string, error) {
	query := `SELECT to_char(holiday_date, 'YYYY-MM-DD') FROM holidays ORDER BY holiday_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, dates []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM holidays`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for _, d := range dates {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO holidays (holiday_date) VALUES ($1::date) ON CONFLICT DO NOTHING`, d); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
